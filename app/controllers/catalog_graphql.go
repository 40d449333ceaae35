package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	gql "github.com/shashiranjanraj/arstoys/pkg/graphql"
)

// productField resolves one Product attribute from the parent value.
func productField(t graphql.Output, get func(models.Product) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			switch src := p.Source.(type) {
			case models.Product:
				return get(src), nil
			case *models.Product:
				return get(*src), nil
			}
			return nil, nil
		},
	}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":       productField(graphql.NewNonNull(graphql.ID), func(p models.Product) interface{} { return p.ID }),
		"name":     productField(graphql.NewNonNull(graphql.String), func(p models.Product) interface{} { return p.Name }),
		"category": productField(graphql.NewNonNull(graphql.String), func(p models.Product) interface{} { return string(p.Category) }),
		"emoji":    productField(graphql.String, func(p models.Product) interface{} { return p.Emoji }),
		"img":      productField(graphql.String, func(p models.Product) interface{} { return p.Img }),
		"price": productField(graphql.NewNonNull(graphql.Float), func(p models.Product) interface{} {
			return p.Price.InexactFloat64()
		}),
		"originalPrice": productField(graphql.Float, func(p models.Product) interface{} {
			if !p.OriginalPrice.Valid {
				return nil
			}
			return p.OriginalPrice.Decimal.InexactFloat64()
		}),
		"age":     productField(graphql.String, func(p models.Product) interface{} { return p.Age }),
		"desc":    productField(graphql.String, func(p models.Product) interface{} { return p.Desc }),
		"badge":   productField(graphql.String, func(p models.Product) interface{} { return string(p.Badge) }),
		"bg":      productField(graphql.String, func(p models.Product) interface{} { return p.Bg }),
		"inStock": productField(graphql.NewNonNull(graphql.Boolean), func(p models.Product) interface{} { return p.InStock }),
		"rating":  productField(graphql.Float, func(p models.Product) interface{} { return p.Rating }),
		"reviews": productField(graphql.Int, func(p models.Product) interface{} { return p.Reviews }),
		"createdAt": productField(graphql.String, func(p models.Product) interface{} {
			return p.CreatedAt.UTC().Format(time.RFC3339)
		}),
	},
})

// CatalogSchema builds the read-only GraphQL view of the catalog:
//
//	{ products(category: "vehicles", search: "car") { id name price } }
//	{ product(id: "…") { name inStock } }
func CatalogSchema(catalog Catalog) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := url.Values{}
					for _, name := range []string{"category", "search"} {
						if v, ok := p.Args[name].(string); ok {
							q.Set(name, v)
						}
					}
					return catalog.List(p.Context, q)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product, err := catalog.Get(p.Context, id)
					if apperr.Is(err, apperr.KindNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return product, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// GraphQL serves the catalog schema.
func GraphQL(catalog Catalog) (http.HandlerFunc, error) {
	schema, err := CatalogSchema(catalog)
	if err != nil {
		return nil, err
	}
	return gql.Handler(schema), nil
}
