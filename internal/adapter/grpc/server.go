package grpc

import (
	"context"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/josevenzke/bank-api/internal/domain"
	"github.com/josevenzke/bank-api/internal/usecase/ledger"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "bankapi.v1.Ledger"

// LedgerServer is the server API for the Ledger service.
// Messages are google.protobuf.Struct so no generated code is needed.
type LedgerServer interface {
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Balance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Block(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Unblock(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Ledger service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deposit", Handler: unaryHandler("Deposit", LedgerServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler("Withdraw", LedgerServer.Withdraw)},
		{MethodName: "Balance", Handler: unaryHandler("Balance", LedgerServer.Balance)},
		{MethodName: "Block", Handler: unaryHandler("Block", LedgerServer.Block)},
		{MethodName: "Unblock", Handler: unaryHandler("Unblock", LedgerServer.Unblock)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterLedgerServer registers srv on s
func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler(method string, call func(LedgerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(LedgerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server implements LedgerServer on top of the ledger usecase
type Server struct {
	LedgerService *ledger.LedgerService
}

// NewServer creates a new gRPC server instance
func NewServer(ledgerService *ledger.LedgerService) *Server {
	return &Server{LedgerService: ledgerService}
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := accountIDFrom(req)
	if err != nil {
		return nil, err
	}

	account, tx, err := s.LedgerService.Deposit(ctx, accountID, amountFrom(req))
	if err != nil {
		return nil, mapError(err)
	}

	return movementResponse(account, tx)
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := accountIDFrom(req)
	if err != nil {
		return nil, err
	}

	account, tx, err := s.LedgerService.Withdraw(ctx, accountID, amountFrom(req))
	if err != nil {
		return nil, mapError(err)
	}

	return movementResponse(account, tx)
}

// Balance handles the Balance RPC
func (s *Server) Balance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := accountIDFrom(req)
	if err != nil {
		return nil, err
	}

	balance, err := s.LedgerService.Balance(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"saldo": domain.FormatMoney(balance)})
}

// Block handles the Block RPC
func (s *Server) Block(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := accountIDFrom(req)
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.Block(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(accountFields(account))
}

// Unblock handles the Unblock RPC
func (s *Server) Unblock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := accountIDFrom(req)
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.Unblock(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(accountFields(account))
}

// accountIDFrom reads "conta" as a positive integer, given as a number or a string
func accountIDFrom(req *structpb.Struct) (int64, error) {
	v, ok := req.GetFields()["conta"]
	if !ok {
		return 0, status.Error(codes.InvalidArgument, "conta: this field is required")
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n > 0 && n == math.Trunc(n) && n < 1<<53 {
			return int64(n), nil
		}
	case *structpb.Value_StringValue:
		if id, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, status.Error(codes.InvalidArgument, "conta: a valid integer is required")
}

// amountFrom reads "valor" as its raw text; a missing or non-scalar value yields ""
func amountFrom(req *structpb.Struct) string {
	v, ok := req.GetFields()["valor"]
	if !ok {
		return ""
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func movementResponse(account *domain.Account, tx *domain.Transaction) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"conta":     accountFields(account),
		"transacao": transactionFields(tx),
	})
}

func accountFields(account *domain.Account) map[string]interface{} {
	return map[string]interface{}{
		"id":                account.ID,
		"saldo":             domain.FormatMoney(account.Balance),
		"limiteSaqueDiario": domain.FormatMoney(account.DailyWithdrawalLimit),
		"flagAtivo":         account.Active,
		"tipoConta":         account.Type,
		"dataCriacao":       account.CreatedAt.Format(time.RFC3339),
		"pessoa":            account.PersonID,
	}
}

func transactionFields(tx *domain.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"id":            tx.ID.String(),
		"valor":         domain.FormatMoney(tx.Value),
		"dataTransacao": tx.Timestamp.Format(time.RFC3339),
		"conta":         tx.AccountID,
		"tipo":          string(tx.Kind),
	}
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Validation failures carry the offending field in the message
	if domain.IsValidation(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if errors.Is(err, domain.ErrNotFound) {
		return status.Error(codes.NotFound, "not found")
	}

	// Default to Internal error for unknown errors
	log.Printf("grpc: internal error: %v", err)
	return status.Error(codes.Internal, "internal server error")
}
