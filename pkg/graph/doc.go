// Package graph provides types, interfaces, and helpers for working with the
// Facebook Graph API.
//
// # Overview
//
// The graph package defines the domain types (e.g., User, Page, Post, Photo,
// Album) and the interfaces for resource-oriented clients (e.g.,
// ObjectsClient, FeedClient). A concrete implementation of these clients is
// provided by the fbclient package, which wires configuration, transport,
// authentication, and API version handling. Most consumers should import
// fbclient to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
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
//	  cli, err := fbclient.New(ctx, &graph.Config{AccessToken: "user-token"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Fetch the profile the token belongs to
//	  me, err := cli.Objects().Get(ctx, "me", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = me
//	}
//
// # Queries and pagination
//
// Use Params to express common request options (fields, limit, cursors, time
// ranges). Edges page with cursors; the package provides helpers for
// iterating or collecting paginated results:
//
//	it := graph.NewEdgeIterator(ctx, cli.Edges(), "me/feed", graph.NewParams().WithLimit(25))
//	for it.HasNext() {
//	  post, err := it.Next()
//	  if err != nil { break }
//	  _ = post
//	}
//
// or fetch all pages at once:
//
//	all, err := graph.FetchAllEdges(ctx, cli.Edges(), "me/feed", nil, graph.DefaultPaginationOptions())
//	if err != nil { /* handle error */ }
//	_ = all
//
// # Errors
//
// API errors are represented by Error, which carries the code, subcode, and
// trace ID the Graph API reports. Helpers such as IsOAuthError,
// IsTokenExpired, IsRateLimited, and IsNotFound make it easy to branch on
// common Graph error cases.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, auth headers, metrics, rate limiting, circuit
// breaking, usage tracking) and a simple pluggable Cache abstraction. The
// fbclient package composes these pieces for a sensible default client;
// applications with advanced needs can also use these primitives directly.
//
// # Resources
//
// Resource clients cover the Graph API surface by concern: node reads
// (Objects, Edges, Search), publishing (Feed, Comments, Likes, Photos,
// Requests), and platform plumbing (Tokens, FQL, Batch). See the individual
// interfaces in resource_clients.go for the full surface area.
package graph
