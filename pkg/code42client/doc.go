// Package code42client provides the primary entry point for constructing a
// Code42 server API client that implements the code42.Client interface.
//
// It wires configuration, the HTTP transport, credential headers and
// instrumentation on top of the resource interfaces and types defined in the
// code42 package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/code42/code42-go/pkg/code42"
//	  "github.com/code42/code42-go/pkg/code42client"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := code42client.NewWithPassword("console.example.com", "admin", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // Exchange the credentials for a token and use it from now on.
//	  token, err := cli.AuthToken(ctx)
//	  if err != nil { log.Fatal(err) }
//	  cli.Connection().SetToken(token)
//
//	  orgs, err := cli.Orgs().List(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = orgs
//	}
//
// Requests are never retried unless Config.RetryMax is set, and a client is
// not safe for concurrent use: create one per goroutine.
package code42client
