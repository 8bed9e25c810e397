package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/josevenzke/bank-api/internal/domain"
)

type personResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"nome"`
	NationalID string `json:"cpf"`
	BirthDate  string `json:"dataNascimento"`
}

type accountResponse struct {
	ID                   int64  `json:"id"`
	Balance              string `json:"saldo"`
	DailyWithdrawalLimit string `json:"limiteSaqueDiario"`
	Active               bool   `json:"flagAtivo"`
	Type                 int    `json:"tipoConta"`
	CreatedAt            string `json:"dataCriacao"`
	PersonID             int64  `json:"pessoa"`
}

type transactionResponse struct {
	ID        string `json:"id"`
	Value     string `json:"valor"`
	Timestamp string `json:"dataTransacao"`
	AccountID int64  `json:"conta"`
	Kind      string `json:"tipo"`
}

type movementResponse struct {
	Account     accountResponse     `json:"conta"`
	Transaction transactionResponse `json:"transacao"`
}

func toPersonResponse(p *domain.Person) personResponse {
	return personResponse{
		ID:         p.ID,
		Name:       p.Name,
		NationalID: p.NationalID,
		BirthDate:  p.BirthDate.Format(domain.DateLayout),
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                   a.ID,
		Balance:              domain.FormatMoney(a.Balance),
		DailyWithdrawalLimit: domain.FormatMoney(a.DailyWithdrawalLimit),
		Active:               a.Active,
		Type:                 a.Type,
		CreatedAt:            a.CreatedAt.Format(time.RFC3339),
		PersonID:             a.PersonID,
	}
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID.String(),
		Value:     domain.FormatMoney(tx.Value),
		Timestamp: tx.Timestamp.Format(time.RFC3339),
		AccountID: tx.AccountID,
		Kind:      string(tx.Kind),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondNotFound(w http.ResponseWriter) {
	respondJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

// respondError maps domain errors to status codes and field-keyed payloads
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		payload := make(map[string][]string)
		for _, e := range fe {
			payload[e.Field] = append(payload[e.Field], e.Message)
		}
		respondJSON(w, http.StatusBadRequest, payload)
		return
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, map[string]string{ve.Field: ve.Message})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		respondNotFound(w)
		return
	}

	if errors.Is(err, errBodyTooLarge) {
		respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"detail": "request body too large"})
		return
	}

	if errors.Is(err, errMalformedBody) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
		return
	}

	log.Printf("[%s] internal error: %v", requestIDFrom(r.Context()), err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
}
