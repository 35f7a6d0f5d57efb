package graphql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/osmtools/condroute/pkg/restriction"
	"github.com/osmtools/condroute/pkg/route"
	"github.com/osmtools/condroute/pkg/timespec"
)

// GenerateSchema builds the read-only query schema over the route
// engine. Node ids travel as ID strings since OSM ids exceed 32-bit
// GraphQL Int range.
func GenerateSchema(engine *route.Engine) (graphql.Schema, error) {
	routeResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteResult",
		Fields: graphql.Fields{
			"found": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"path":  &graphql.Field{Type: graphql.NewList(graphql.ID)},
			"cost":  &graphql.Field{Type: graphql.Float},
			"nodesExpanded": &graphql.Field{
				Type: graphql.Int,
			},
		},
	})

	affectedEdgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AffectedEdge",
		Fields: graphql.Fields{
			"wayId":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"from":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"to":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"restrictions": &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	tagValidationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TagValidation",
		Fields: graphql.Fields{
			"valid":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},

			"shortestPath": &graphql.Field{
				Type: routeResultType,
				Args: graphql.FieldConfigArgument{
					"from":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"to":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"profile":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"at":           &graphql.ArgumentConfig{Type: graphql.String},
					"weightTonnes": &graphql.ArgumentConfig{Type: graphql.Float},
					"heightMeters": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: shortestPathResolver(engine),
			},

			"affectedWays": &graphql.Field{
				Type: graphql.NewList(affectedEdgeType),
				Args: graphql.FieldConfigArgument{
					"profile": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"at":      &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: affectedWaysResolver(engine),
			},

			"validateTag": &graphql.Field{
				Type: tagValidationType,
				Args: graphql.FieldConfigArgument{
					"key":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: validateTagResolver(),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

func shortestPathResolver(engine *route.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		from, err := nodeIDArg(p.Args, "from")
		if err != nil {
			return nil, err
		}
		to, err := nodeIDArg(p.Args, "to")
		if err != nil {
			return nil, err
		}

		query, err := buildQuery(p.Args)
		if err != nil {
			return nil, err
		}
		if w, ok := p.Args["weightTonnes"].(float64); ok {
			query.Weight = &w
		}
		if h, ok := p.Args["heightMeters"].(float64); ok {
			query.Height = &h
		}

		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}

		res, err := engine.ShortestPath(ctx, from, to, query)
		if err != nil {
			return nil, err
		}

		path := make([]string, len(res.Path))
		for i, id := range res.Path {
			path[i] = strconv.FormatInt(id, 10)
		}

		return map[string]any{
			"found":         len(res.Path) > 0,
			"path":          path,
			"cost":          res.Cost,
			"nodesExpanded": res.NodesExpanded,
		}, nil
	}
}

func affectedWaysResolver(engine *route.Engine) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		query, err := buildQuery(p.Args)
		if err != nil {
			return nil, err
		}

		edges := engine.AffectedEdges(query)
		out := make([]map[string]any, 0, len(edges))
		for _, e := range edges {
			descriptions := make([]string, len(e.Restrictions))
			for i, r := range e.Restrictions {
				descriptions[i] = r.Describe()
			}
			out = append(out, map[string]any{
				"wayId":        strconv.FormatInt(e.WayID, 10),
				"from":         strconv.FormatInt(e.From, 10),
				"to":           strconv.FormatInt(e.To, 10),
				"restrictions": descriptions,
			})
		}
		return out, nil
	}
}

func validateTagResolver() graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		key, _ := p.Args["key"].(string)
		value, _ := p.Args["value"].(string)

		result := restriction.Validate(key, value)
		return map[string]any{
			"valid":   result.Valid,
			"message": result.Message,
		}, nil
	}
}

// buildQuery assembles a route query from the shared profile/at args.
func buildQuery(args map[string]any) (route.Query, error) {
	name, _ := args["profile"].(string)
	profile, err := route.ParseProfile(name)
	if err != nil {
		return route.Query{}, err
	}

	at := time.Now()
	if raw, ok := args["at"].(string); ok && raw != "" {
		at, err = timespec.ParseDateTime(raw)
		if err != nil {
			return route.Query{}, fmt.Errorf("invalid time %q: %w", raw, err)
		}
	}

	return route.Query{Profile: profile, At: at}, nil
}

func nodeIDArg(args map[string]any, name string) (int64, error) {
	raw, _ := args[name].(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q for %s", raw, name)
	}
	return id, nil
}
