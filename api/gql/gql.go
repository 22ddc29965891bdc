// Package gql exposes the GraphQL surface.
package gql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/gql/schema"
)

// Handler wraps the GraphQL schema and makes it injectable
// into the echo HTTP framework.
func Handler(svc *schema.Services) echo.HandlerFunc {
	s, err := graphql.NewSchema(schema.New(svc))
	if err != nil {
		panic(err)
	}

	return echo.WrapHandler(
		handler.New(
			&handler.Config{
				Schema:   &s,
				Pretty:   true,
				GraphiQL: true,
			},
		),
	)
}
