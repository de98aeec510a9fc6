package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	nftColumns        = `id, article_id, token_id, contract_address, chain_id, metadata, creator_wallet, supply, price, currency, royalty_percentage, is_listed, is_minted, mint_tx_hash, total_sales, total_volume, created_at, updated_at`
	nftSaleColumns    = `id, nft_id, seller_wallet, buyer_wallet, price, currency, royalty_amount, tx_hash, status, created_at`
	collectionColumns = `id, name, description, creator_wallet, cover_image, category, total_items, total_volume, floor_price, created_at, updated_at`
)

// nftRepository handles NFTs, sales and collections with PostgreSQL
type nftRepository struct {
	db *database.PostgresDB
}

// NewNFTRepository creates a new NFT repository
func NewNFTRepository(db *database.PostgresDB) NFTRepository {
	return &nftRepository{
		db: db,
	}
}

// Insert creates a new NFT record
func (r *nftRepository) Insert(ctx context.Context, nft *domain.NFT) error {
	metadata, err := json.Marshal(nft.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal nft metadata: %w", err)
	}

	query := `
		INSERT INTO nfts (` + nftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		nft.ID,
		nft.ArticleID,
		nft.TokenID,
		nft.ContractAddress,
		nft.ChainID,
		metadata,
		nft.CreatorWallet,
		nft.Supply,
		nft.Price,
		string(nft.Currency),
		nft.RoyaltyPercentage,
		nft.IsListed,
		nft.IsMinted,
		nft.MintTxHash,
		nft.TotalSales,
		nft.TotalVolume,
		nft.CreatedAt,
		nft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert nft: %w", err)
	}

	return nil
}

// GetByID returns the NFT, or nil when absent
func (r *nftRepository) GetByID(ctx context.Context, id string) (*domain.NFT, error) {
	query := `SELECT ` + nftColumns + ` FROM nfts WHERE id = $1`

	nft, err := scanNFT(r.db.GetReadPool().QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft by id: %w", err)
	}

	return nft, nil
}

// GetByArticle returns the NFT tied to an article, or nil when absent
func (r *nftRepository) GetByArticle(ctx context.Context, articleID string) (*domain.NFT, error) {
	query := `SELECT ` + nftColumns + ` FROM nfts WHERE article_id = $1`

	nft, err := scanNFT(r.db.GetReadPool().QueryRow(ctx, query, articleID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft by article: %w", err)
	}

	return nft, nil
}

// Update applies a partial update and returns the fresh row, nil when absent
func (r *nftRepository) Update(ctx context.Context, id string, upd *domain.NFTUpdate) (*domain.NFT, error) {
	query := `
		UPDATE nfts SET
			price = COALESCE($2, price),
			currency = COALESCE($3, currency),
			is_listed = COALESCE($4, is_listed),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + nftColumns + `
	`

	nft, err := scanNFT(r.db.Pool.QueryRow(ctx, query, id, upd.Price, upd.Currency, upd.IsListed))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update nft: %w", err)
	}

	return nft, nil
}

// MarkMinted records the mint transaction; reports whether a row matched
func (r *nftRepository) MarkMinted(ctx context.Context, id, txHash string) (bool, error) {
	query := `
		UPDATE nfts
		SET is_minted = TRUE, mint_tx_hash = $2, updated_at = NOW()
		WHERE id = $1 AND is_minted = FALSE
	`

	result, err := r.db.Pool.Exec(ctx, query, id, txHash)
	if err != nil {
		return false, fmt.Errorf("failed to mark nft minted: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetListing lists or unlists an NFT, optionally repricing it
func (r *nftRepository) SetListing(ctx context.Context, id string, listed bool, price *decimal.Decimal, currency *domain.Currency) (bool, error) {
	var currencyArg *string
	if currency != nil {
		s := string(*currency)
		currencyArg = &s
	}

	query := `
		UPDATE nfts
		SET is_listed = $2,
			price = COALESCE($3, price),
			currency = COALESCE($4, currency),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, id, listed, price, currencyArg)
	if err != nil {
		return false, fmt.Errorf("failed to set nft listing: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListListed returns listed NFTs, optionally bounded by price, newest first
func (r *nftRepository) ListListed(ctx context.Context, limit, offset int, minPrice, maxPrice *decimal.Decimal) ([]*domain.NFT, error) {
	query := `
		SELECT ` + nftColumns + `
		FROM nfts
		WHERE is_listed = TRUE
			AND ($3::numeric IS NULL OR price >= $3)
			AND ($4::numeric IS NULL OR price <= $4)
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, limit, offset, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to query listed nfts: %w", err)
	}
	defer rows.Close()

	return collectNFTs(rows)
}

// ListByCreator returns a creator's NFTs, newest first
func (r *nftRepository) ListByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFT, error) {
	query := `
		SELECT ` + nftColumns + `
		FROM nfts
		WHERE creator_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query nfts by creator: %w", err)
	}
	defer rows.Close()

	return collectNFTs(rows)
}

// InsertSale records a marketplace sale
func (r *nftRepository) InsertSale(ctx context.Context, sale *domain.NFTSale) error {
	query := `
		INSERT INTO nft_sales (` + nftSaleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		sale.ID,
		sale.NFTID,
		sale.SellerWallet,
		sale.BuyerWallet,
		sale.Price,
		string(sale.Currency),
		sale.RoyaltyAmount,
		sale.TransactionHash,
		string(sale.Status),
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert nft sale: %w", err)
	}

	return nil
}

// RecordSaleStats bumps the NFT's sale count and exact-decimal volume
func (r *nftRepository) RecordSaleStats(ctx context.Context, nftID string, price decimal.Decimal) error {
	query := `
		UPDATE nfts
		SET total_sales = total_sales + 1,
			total_volume = total_volume + $2,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, nftID, price)
	if err != nil {
		return fmt.Errorf("failed to record nft sale stats: %w", err)
	}

	return nil
}

// ListSalesByNFT returns an NFT's sale history, newest first
func (r *nftRepository) ListSalesByNFT(ctx context.Context, nftID string, limit, offset int) ([]*domain.NFTSale, error) {
	query := `
		SELECT ` + nftSaleColumns + `
		FROM nft_sales
		WHERE nft_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, nftID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query nft sales: %w", err)
	}
	defer rows.Close()

	return collectNFTSales(rows)
}

// ListSalesByWallet returns sales where the wallet was buyer or seller
func (r *nftRepository) ListSalesByWallet(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTSale, error) {
	query := `
		SELECT ` + nftSaleColumns + `
		FROM nft_sales
		WHERE seller_wallet = $1 OR buyer_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query nft sales by wallet: %w", err)
	}
	defer rows.Close()

	return collectNFTSales(rows)
}

// InsertCollection creates a collection
func (r *nftRepository) InsertCollection(ctx context.Context, collection *domain.NFTCollection) error {
	query := `
		INSERT INTO nft_collections (` + collectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		collection.ID,
		collection.Name,
		collection.Description,
		collection.CreatorWallet,
		collection.CoverImage,
		collection.Category,
		collection.TotalItems,
		collection.TotalVolume,
		collection.FloorPrice,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert nft collection: %w", err)
	}

	return nil
}

// GetCollection returns the collection, or nil when absent
func (r *nftRepository) GetCollection(ctx context.Context, id string) (*domain.NFTCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM nft_collections WHERE id = $1`

	collection, err := scanCollection(r.db.GetReadPool().QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft collection: %w", err)
	}

	return collection, nil
}

// ListCollections returns collections, newest first
func (r *nftRepository) ListCollections(ctx context.Context, limit, offset int) ([]*domain.NFTCollection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM nft_collections
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query nft collections: %w", err)
	}
	defer rows.Close()

	return collectCollections(rows)
}

// ListCollectionsByCreator returns a creator's collections, newest first
func (r *nftRepository) ListCollectionsByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTCollection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM nft_collections
		WHERE creator_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query nft collections by creator: %w", err)
	}
	defer rows.Close()

	return collectCollections(rows)
}

// CountNFTs counts NFTs, scoped to a creator when wallet is non-empty
func (r *nftRepository) CountNFTs(ctx context.Context, creatorWallet string) (int64, error) {
	query := `SELECT COUNT(*) FROM nfts WHERE $1 = '' OR creator_wallet = $1`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count nfts: %w", err)
	}

	return count, nil
}

// SumVolume sums sale volume, scoped to a creator when wallet is non-empty
func (r *nftRepository) SumVolume(ctx context.Context, creatorWallet string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_volume), 0) FROM nfts WHERE $1 = '' OR creator_wallet = $1`

	var total decimal.Decimal
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum nft volume: %w", err)
	}

	return total, nil
}

// CountSales counts sales, scoped to a creator when wallet is non-empty
func (r *nftRepository) CountSales(ctx context.Context, creatorWallet string) (int64, error) {
	query := `SELECT COALESCE(SUM(total_sales), 0) FROM nfts WHERE $1 = '' OR creator_wallet = $1`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count nft sales: %w", err)
	}

	return count, nil
}

// FloorPrice returns the cheapest listed price; ok is false when nothing is listed
func (r *nftRepository) FloorPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, bool, error) {
	query := `
		SELECT MIN(price)
		FROM nfts
		WHERE is_listed = TRUE AND ($1 = '' OR creator_wallet = $1)
	`

	var floor *decimal.Decimal
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&floor)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get nft floor price: %w", err)
	}
	if floor == nil {
		return decimal.Zero, false, nil
	}

	return *floor, true, nil
}

// CountDistinctBuyers counts distinct completed-sale buyers
func (r *nftRepository) CountDistinctBuyers(ctx context.Context, creatorWallet string) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT s.buyer_wallet)
		FROM nft_sales s
		JOIN nfts n ON n.id = s.nft_id
		WHERE s.status = 'completed' AND ($1 = '' OR n.creator_wallet = $1)
	`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct nft buyers: %w", err)
	}

	return count, nil
}

// AverageListedPrice averages the price of listed NFTs
func (r *nftRepository) AverageListedPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(AVG(price), 0)
		FROM nfts
		WHERE is_listed = TRUE AND ($1 = '' OR creator_wallet = $1)
	`

	var avg decimal.Decimal
	err := r.db.GetReadPool().QueryRow(ctx, query, creatorWallet).Scan(&avg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to average nft listed price: %w", err)
	}

	return avg, nil
}

func scanNFT(row rowScanner) (*domain.NFT, error) {
	nft := &domain.NFT{}
	var currency string
	var metadata []byte

	err := row.Scan(
		&nft.ID,
		&nft.ArticleID,
		&nft.TokenID,
		&nft.ContractAddress,
		&nft.ChainID,
		&metadata,
		&nft.CreatorWallet,
		&nft.Supply,
		&nft.Price,
		&currency,
		&nft.RoyaltyPercentage,
		&nft.IsListed,
		&nft.IsMinted,
		&nft.MintTxHash,
		&nft.TotalSales,
		&nft.TotalVolume,
		&nft.CreatedAt,
		&nft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	nft.Currency = domain.Currency(currency)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &nft.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nft metadata: %w", err)
		}
	}

	return nft, nil
}

func collectNFTs(rows pgx.Rows) ([]*domain.NFT, error) {
	var nfts []*domain.NFT
	for rows.Next() {
		nft, err := scanNFT(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nft row: %w", err)
		}
		nfts = append(nfts, nft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading nft rows: %w", err)
	}

	return nfts, nil
}

func scanNFTSale(row rowScanner) (*domain.NFTSale, error) {
	sale := &domain.NFTSale{}
	var currency, status string

	err := row.Scan(
		&sale.ID,
		&sale.NFTID,
		&sale.SellerWallet,
		&sale.BuyerWallet,
		&sale.Price,
		&currency,
		&sale.RoyaltyAmount,
		&sale.TransactionHash,
		&status,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sale.Currency = domain.Currency(currency)
	sale.Status = domain.PaymentStatus(status)
	return sale, nil
}

func collectNFTSales(rows pgx.Rows) ([]*domain.NFTSale, error) {
	var sales []*domain.NFTSale
	for rows.Next() {
		sale, err := scanNFTSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nft sale row: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading nft sale rows: %w", err)
	}

	return sales, nil
}

func scanCollection(row rowScanner) (*domain.NFTCollection, error) {
	collection := &domain.NFTCollection{}
	err := row.Scan(
		&collection.ID,
		&collection.Name,
		&collection.Description,
		&collection.CreatorWallet,
		&collection.CoverImage,
		&collection.Category,
		&collection.TotalItems,
		&collection.TotalVolume,
		&collection.FloorPrice,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return collection, nil
}

func collectCollections(rows pgx.Rows) ([]*domain.NFTCollection, error) {
	var collections []*domain.NFTCollection
	for rows.Next() {
		collection, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nft collection row: %w", err)
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading nft collection rows: %w", err)
	}

	return collections, nil
}
