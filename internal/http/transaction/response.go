package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/andremfs/bookline/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Date           string             `json:"date"`
	Description    string             `json:"description"`
	Description2   *string            `json:"description2,omitempty"`
	Expense        int64              `json:"expense"`
	Income         int64              `json:"income"`
	Status         transaction.Status `json:"status"`
	ProjectCode    *string            `json:"project_code,omitempty"`
	ProjectName    *string            `json:"project_name,omitempty"`
	Category       *string            `json:"category,omitempty"`
	SequenceNumber int64              `json:"sequence_number,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
}

type ledgerLineResponse struct {
	transactionResponse
	Balance int64 `json:"balance"`
}

type ledgerResponse struct {
	StartingBalance int64                `json:"starting_balance"`
	Lines           []ledgerLineResponse `json:"lines"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:             tx.ID,
		Date:           tx.Date.Format(time.DateOnly),
		Description:    tx.Description,
		Description2:   tx.Description2,
		Expense:        tx.Expense,
		Income:         tx.Income,
		Status:         tx.Status,
		ProjectCode:    tx.ProjectCode,
		Category:       tx.Category,
		SequenceNumber: tx.SequenceNumber,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}

	if tx.Project != nil {
		resp.ProjectName = &tx.Project.Name
	}

	return resp
}

func toLedgerResponse(lines []transaction.LedgerLine, startingBalance int64) ledgerResponse {
	resp := ledgerResponse{
		StartingBalance: startingBalance,
		Lines:           make([]ledgerLineResponse, len(lines)),
	}

	for i, line := range lines {
		resp.Lines[i] = ledgerLineResponse{
			transactionResponse: toResponse(line.Transaction),
			Balance:             line.Balance,
		}
	}

	return resp
}
