package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"storefront/app/category"
	"storefront/app/product"
	"storefront/pkg/httperror"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const CatalogServiceName = "storefront.catalog.v1.CatalogService"

// CatalogServer is the read side of the catalog for internal callers.
// Requests are Struct messages; every method answers with the same JSON
// array the HTTP API returns, as a ListValue.
type CatalogServer interface {
	ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	ProductsByCategory(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	BestSellers(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
}

type catalogCall func(srv CatalogServer, ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)

func unaryMethod(name string, call catalogCall) grpc.MethodDesc {
	fullMethod := "/" + CatalogServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListCategories", CatalogServer.ListCategories),
		unaryMethod("ListProducts", CatalogServer.ListProducts),
		unaryMethod("ProductsByCategory", CatalogServer.ProductsByCategory),
		unaryMethod("BestSellers", CatalogServer.BestSellers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/catalog/v1/catalog.proto",
}

func RegisterCatalogServer(registrar grpc.ServiceRegistrar, srv CatalogServer) {
	registrar.RegisterService(&catalogServiceDesc, srv)
}

// CatalogService serves catalog reads through the same handlers as the HTTP
// API. There is no request origin, so image URLs stay relative.
type CatalogService struct {
	listCategories     *category.ListCategoriesHandler
	listProducts       *product.ListProductsHandler
	productsByCategory *product.ProductsByCategoryHandler
	bestSellers        *product.BestSellersHandler
}

type CatalogRepository interface {
	category.Repository
	product.Repository
}

func NewCatalogService(repository CatalogRepository, serializer product.Serializer) *CatalogService {
	return &CatalogService{
		listCategories:     category.NewListCategoriesHandler(repository),
		listProducts:       product.NewListProductsHandler(repository, serializer),
		productsByCategory: product.NewProductsByCategoryHandler(repository, serializer),
		bestSellers:        product.NewBestSellersHandler(repository, serializer),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.ListValue, error) {
	return respond(s.listCategories.Handle(ctx, &category.ListCategoriesRequest{}))
}

func (s *CatalogService) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	shape := product.ShapeList
	if req.GetFields()["detail"].GetBoolValue() {
		shape = product.ShapeDetail
	}

	return respond(s.listProducts.Handle(ctx, &product.ListProductsRequest{
		Category: req.GetFields()["category"].GetStringValue(),
		Shape:    shape,
	}))
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	return respond(s.productsByCategory.Handle(ctx, &product.ProductsByCategoryRequest{
		Category: req.GetFields()["category"].GetStringValue(),
	}))
}

func (s *CatalogService) BestSellers(ctx context.Context, _ *structpb.Struct) (*structpb.ListValue, error) {
	return respond(s.bestSellers.Handle(ctx, &product.BestSellersRequest{}))
}

// respond converts a handler result into a ListValue, or its error into a
// gRPC status.
func respond[Res any](res *Res, err error) (*structpb.ListValue, error) {
	if err != nil {
		return nil, toStatus(err)
	}

	body, err := json.Marshal(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}

	list := &structpb.ListValue{}
	if err := protojson.Unmarshal(body, list); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return list, nil
}

func toStatus(err error) error {
	var httpErr *httperror.Error
	if !errors.As(err, &httpErr) {
		zap.L().Error("Catalog call failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}

	if httpErr.Status >= http.StatusInternalServerError {
		zap.L().Error("Catalog call failed", zap.String("code", httpErr.Code), zap.Error(httpErr), zap.NamedError("cause", httpErr.Cause))
	}

	switch httpErr.Status {
	case http.StatusBadRequest:
		return status.Error(codes.InvalidArgument, httpErr.Message)
	case http.StatusNotFound:
		return status.Error(codes.NotFound, httpErr.Message)
	default:
		return status.Error(codes.Internal, httpErr.Message)
	}
}
