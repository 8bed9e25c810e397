// Package http exposes the registry, ledger and statement use cases as a
// JSON API with Portuguese routes.
package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/josevenzke/bank-api/internal/domain"
	"github.com/josevenzke/bank-api/internal/usecase/ledger"
	"github.com/josevenzke/bank-api/internal/usecase/registry"
	"github.com/josevenzke/bank-api/internal/usecase/statement"
)

// Server holds the use cases behind the HTTP routes
type Server struct {
	RegistryService  *registry.RegistryService
	LedgerService    *ledger.LedgerService
	StatementService *statement.StatementService
}

// NewServer creates a new HTTP server instance
func NewServer(
	registryService *registry.RegistryService,
	ledgerService *ledger.LedgerService,
	statementService *statement.StatementService,
) *Server {
	return &Server{
		RegistryService:  registryService,
		LedgerService:    ledgerService,
		StatementService: statementService,
	}
}

// Router builds the route table wrapped in the logging middleware
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { respondNotFound(w) })
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method \"" + r.Method + "\" not allowed."})
	})

	r.HandleFunc("/health", s.health).Methods("GET")

	r.HandleFunc("/pessoas/", s.listPersons).Methods("GET")
	r.HandleFunc("/pessoas/", s.createPerson).Methods("POST")
	r.HandleFunc("/pessoa/{id:[0-9]+}/", s.getPerson).Methods("GET")
	r.HandleFunc("/pessoa/{id:[0-9]+}/", s.deletePerson).Methods("DELETE")

	r.HandleFunc("/contas/", s.listAccounts).Methods("GET")
	r.HandleFunc("/contas/", s.openAccount).Methods("POST")
	r.HandleFunc("/conta/{id:[0-9]+}/", s.getAccount).Methods("GET")
	r.HandleFunc("/conta/{id:[0-9]+}/", s.deleteAccount).Methods("DELETE")
	r.HandleFunc("/conta/{id:[0-9]+}/deposito/", s.deposit).Methods("POST")
	r.HandleFunc("/conta/{id:[0-9]+}/saque/", s.withdraw).Methods("POST")
	r.HandleFunc("/conta/{id:[0-9]+}/bloqueio/", s.block).Methods("POST")
	r.HandleFunc("/conta/{id:[0-9]+}/desbloqueio/", s.unblock).Methods("POST")
	r.HandleFunc("/conta/{id:[0-9]+}/saldo/", s.balance).Methods("GET")
	r.HandleFunc("/conta/{id:[0-9]+}/transacoes/", s.transactions).Methods("GET")

	return loggingMiddleware(r)
}

// pathID reads the {id} route variable; ids that overflow are treated as missing
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.RegistryService.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]personResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, toPersonResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	person, err := s.RegistryService.Register(r.Context(), registry.RegisterInput{
		Name:       in["nome"],
		NationalID: in["cpf"],
		BirthDate:  in["dataNascimento"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPersonResponse(person))
}

func (s *Server) getPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	person, err := s.RegistryService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonResponse(person))
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	if err := s.RegistryService.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.LedgerService.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) openAccount(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	account, err := s.LedgerService.Open(r.Context(), ledger.OpenInput{
		Balance:     in["saldo"],
		DailyLimit:  in["limiteSaqueDiario"],
		PersonID:    in["pessoa"],
		AccountType: in["tipoConta"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	s.withAccount(w, r, s.LedgerService.Get)
}

func (s *Server) block(w http.ResponseWriter, r *http.Request) {
	s.withAccount(w, r, s.LedgerService.Block)
}

func (s *Server) unblock(w http.ResponseWriter, r *http.Request) {
	s.withAccount(w, r, s.LedgerService.Unblock)
}

// withAccount runs op on the path account and responds with the resulting account
func (s *Server) withAccount(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (*domain.Account, error)) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	account, err := op(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	if err := s.LedgerService.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, s.LedgerService.Deposit)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, s.LedgerService.Withdraw)
}

// move runs a deposit or withdrawal with the "valor" input
func (s *Server) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64, amount string) (*domain.Account, *domain.Transaction, error)) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	in, err := readFields(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	account, tx, err := op(r.Context(), id, in["valor"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, movementResponse{
		Account:     toAccountResponse(account),
		Transaction: toTransactionResponse(tx),
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	balance, err := s.LedgerService.Balance(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"saldo": domain.FormatMoney(balance)})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondNotFound(w)
		return
	}

	in, err := readFields(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	txs, err := s.StatementService.Query(r.Context(), id, statement.QueryInput{
		Start: in["data_inicial"],
		End:   in["data_final"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	respondJSON(w, http.StatusOK, out)
}
