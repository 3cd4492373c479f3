// Package code42 provides types, interfaces, and helpers for working with the
// Code42 server API.
//
// # Overview
//
// Every resource the server exposes (orgs, roles, role assignments) is read
// and written through two pieces:
//
//   - a Schema declaring which attributes a resource type recognizes and how
//     their names map to the wire, and
//   - a Connection that sends requests, tracks credentials and turns failed
//     responses into typed errors.
//
// A concrete client is built by the code42client package:
//
//	cli, err := code42client.New(&code42.Config{
//	  Host:     "console.example.com",
//	  Port:     4285,
//	  Username: "admin",
//	  Password: os.Getenv("CODE42_PASSWORD"),
//	})
//	if err != nil { log.Fatal(err) }
//
//	org, err := cli.Orgs().Get(ctx, "", nil)
//
// # Schemas and resources
//
// Attribute names are snake_case inside the client and lowerCamelCase on the
// wire unless a schema declares an explicit wire name:
//
//	var DeviceSchema = code42.NewSchema().
//	  Declare("id", code42.WireName("computerId")).
//	  Declare("name").
//	  Declare("os_version")
//
// Translating a payload keeps only declared attributes, so fields added to the
// server API later are ignored rather than breaking decoding. A Resource only
// answers for the attributes it was built with; typed views such as Org are
// decoded from it with Resource.Decode.
//
// # Errors
//
// Failed calls return *Error. Its Kind is one of the sentinels in this
// package (ErrAuthentication, ErrAuthorization, ErrResourceNotFound,
// ErrConnectionFailed, ErrServerError or a server-declared kind registered
// with RegisterErrorKind), so callers branch with errors.Is or the IsNotFound
// style helpers.
package code42
