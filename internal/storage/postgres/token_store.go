package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// normalizedFeeAccount is the SQL form of domain.NormalizeFeeAccount.
const normalizedFeeAccount = `lower(regexp_replace(btrim(fee_account), '^@', ''))`

const tokenColumns = `
	id::text, name, symbol, description, mint_address, transaction_signature,
	metadata_uri, image_uri, fee_account, twitter_url, telegram_url, website_url,
	status, raw_response, COALESCE(wallet_id::text, ''), wallet_public_key,
	creator_ip, created_at
`

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if id or mint_address exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	if t == nil || t.MintAddress == "" {
		return storage.ErrInvalidInput
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TokenStatusCreated
	}

	var walletID *string
	if t.WalletID != "" {
		walletID = &t.WalletID
	}
	var raw []byte
	if len(t.RawResponse) > 0 {
		raw = t.RawResponse
	}

	query := `
		INSERT INTO tokens (
			id, name, symbol, description, mint_address, transaction_signature,
			metadata_uri, image_uri, fee_account, twitter_url, telegram_url, website_url,
			status, raw_response, wallet_id, wallet_public_key, creator_ip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		t.ID,
		t.Name,
		t.Symbol,
		t.Description,
		t.MintAddress,
		t.TransactionSignature,
		t.MetadataURI,
		t.ImageURI,
		t.FeeAccount,
		t.TwitterURL,
		t.TelegramURL,
		t.WebsiteURL,
		t.Status,
		raw,
		walletID,
		t.WalletPublicKey,
		t.CreatorIP,
	).Scan(&t.CreatedAt)
	return translate("insert token", err)
}

// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(ctx context.Context, mint string) (*domain.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE mint_address = $1`

	t, err := scanToken(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		return nil, translate("get token by mint", err)
	}
	return t, nil
}

// LatestCreationByIP returns the newest created_at for creatorIP since the cutoff.
func (s *TokenStore) LatestCreationByIP(ctx context.Context, creatorIP string, since time.Time) (time.Time, error) {
	query := `
		SELECT created_at
		FROM tokens
		WHERE creator_ip = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var latest time.Time
	if err := s.pool.QueryRow(ctx, query, creatorIP, since).Scan(&latest); err != nil {
		return time.Time{}, translate("latest creation by ip", err)
	}
	return latest, nil
}

// CreationsByFeeAccount returns creation times for a normalized fee account, newest first.
func (s *TokenStore) CreationsByFeeAccount(ctx context.Context, normalized string, since time.Time) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM tokens
		WHERE fee_account IS NOT NULL
			AND ` + normalizedFeeAccount + ` = $1
			AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, normalized, since)
	if err != nil {
		return nil, fmt.Errorf("query creations by fee account: %w", err)
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scan creation time: %w", err)
		}
		result = append(result, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creations: %w", err)
	}
	return result, nil
}

// List returns one page of matching tokens, newest first, and the total count.
func (s *TokenStore) List(ctx context.Context, filter domain.TokenFilter) ([]*domain.Token, int, error) {
	where, args := tokenFilterClause(filter)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tokens`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tokens: %w", err)
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens` + where + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset())
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]*domain.Token, 0)
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, total, nil
}

// tokenFilterClause builds the WHERE clause and positional args for a filter.
func tokenFilterClause(filter domain.TokenFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(filter.ExcludedFeeAccounts) > 0 {
		excluded := make([]string, 0, len(filter.ExcludedFeeAccounts))
		for _, h := range filter.ExcludedFeeAccounts {
			excluded = append(excluded, domain.NormalizeFeeAccount(h))
		}
		args = append(args, excluded)
		conds = append(conds, fmt.Sprintf(
			"(fee_account IS NULL OR NOT (%s = ANY($%d)))", normalizedFeeAccount, len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR symbol ILIKE $%d OR mint_address ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var raw []byte
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Symbol,
		&t.Description,
		&t.MintAddress,
		&t.TransactionSignature,
		&t.MetadataURI,
		&t.ImageURI,
		&t.FeeAccount,
		&t.TwitterURL,
		&t.TelegramURL,
		&t.WebsiteURL,
		&t.Status,
		&raw,
		&t.WalletID,
		&t.WalletPublicKey,
		&t.CreatorIP,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		t.RawResponse = raw
	}
	return &t, nil
}
