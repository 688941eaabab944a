package pgx

import (
	"context"

	"github.com/google/uuid"

	"github.com/jrlim/moat/core"
)

func (a *Adapter) CreateAccount(ctx context.Context, account *core.Account) error {
	if account.Provider == "" {
		account.Provider = core.ProviderCredentials
	}

	query := `INSERT INTO accounts (id, provider, user_id, provider_account_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	id := uuid.NewString()
	err := a.pool.QueryRow(ctx, query,
		id, account.Provider, account.UserID, account.ProviderAccountID,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return err
	}

	account.ID = id
	return nil
}

func (a *Adapter) GetAccountsByUser(ctx context.Context, userID string) ([]*core.Account, error) {
	query := `SELECT id, provider, user_id, provider_account_id, created_at, updated_at
	          FROM accounts WHERE user_id = $1 ORDER BY created_at`

	rows, err := a.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*core.Account
	for rows.Next() {
		account := &core.Account{}
		err := rows.Scan(
			&account.ID, &account.Provider, &account.UserID,
			&account.ProviderAccountID, &account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
