// Package fbclient provides the primary entry point for constructing a
// Facebook Graph API client that implements the graph.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource interfaces and types defined in the graph package. Most
// applications should import fbclient to build a client, then use the
// returned graph.Client to access resource-specific clients, for example
// Objects(), Feed(), Photos(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/graph-client/pkg/fbclient"
//	  "github.com/fivetwenty-io/graph-client/pkg/graph"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With an access token you already have:
//	  cli, err := fbclient.NewWithToken(ctx, "EAAB...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with app credentials. The client obtains an application access
//	  // token through the client_credentials grant on first use.
//	  cli, err = fbclient.New(ctx, &graph.Config{
//	    AppID:     "app-id",
//	    AppSecret: "app-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the graph.Client interface
//	  me, err := cli.Objects().Get(ctx, "me", graph.NewParams().WithFields("id", "name"))
//	  if err != nil { log.Fatal(err) }
//	  _ = me
//	}
//
// # TLS and development mode
//
// For local development against a TLS-intercepting proxy, you can set
// Config.SkipTLSVerify=true. This is gated by the environment variable
// FBGRAPH_DEV_MODE to avoid accidental insecure usage in production
// environments.
//
// # Helpers
//
// The package also provides convenience constructors NewWithToken,
// NewWithAppCredentials, and NewUnauthenticated that wrap New with the
// appropriate configuration.
package fbclient
