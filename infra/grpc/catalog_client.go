package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) invoke(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+CatalogServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) ListCategories(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "ListCategories", nil, opts...)
}

func (c *CatalogClient) ListProducts(ctx context.Context, category string, detail bool, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "ListProducts", map[string]any{"category": category, "detail": detail}, opts...)
}

func (c *CatalogClient) ProductsByCategory(ctx context.Context, category string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "ProductsByCategory", map[string]any{"category": category}, opts...)
}

func (c *CatalogClient) BestSellers(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "BestSellers", nil, opts...)
}
