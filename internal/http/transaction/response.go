package transaction

import (
	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

type transactionResponse struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	DisplayDate string           `json:"displayDate"`
	Type        transaction.Kind `json:"type"`
	AmountCents int64            `json:"amountCents"`
	Amount      string           `json:"amount"`
	Shop        string           `json:"shop,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date,
		DisplayDate: dates.Display(tx.Date),
		Type:        tx.Kind,
		AmountCents: tx.AmountCents,
		Amount:      money.Format(tx.AmountCents),
		Shop:        tx.Shop,
		Notes:       tx.Notes,
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
