package service

import (
	"context"
	"errors"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrReadOnly        = errors.New("resource is read-only")
	ErrMissingID       = errors.New("missing id")
)

// Resource ties an API path segment to its table.
type Resource struct {
	Name    string
	Table   string
	OrderBy string
}

var resources = []Resource{
	{Name: "residents", Table: "residents", OrderBy: "created_at"},
	{Name: "staff", Table: "staff", OrderBy: "created_at"},
	{Name: "caretakers", Table: "caretakers", OrderBy: "created_at"},
	{Name: "visitors", Table: "visitors", OrderBy: "created_at"},
	{Name: "donations", Table: "donations", OrderBy: "created_at"},
	{Name: "medical", Table: "medical_records", OrderBy: "created_at"},
}

func LookupResource(name string) (Resource, bool) {
	for _, r := range resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// ResourceNames lists the API resources in a fixed order.
func ResourceNames() []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name
	}
	return out
}

type Record = map[string]any

// Backend is one of the interchangeable data sources behind /api/data.
// Read-only backends return ErrReadOnly from the mutating methods.
type Backend interface {
	Name() string
	ReadOnly() bool
	List(ctx context.Context, resource string) ([]Record, error)
	Create(ctx context.Context, resource string, fields Record) (Record, error)
	Update(ctx context.Context, resource, id string, fields Record) (Record, error)
	Delete(ctx context.Context, resource, id string) (Record, error)
	Ping(ctx context.Context) error
}
