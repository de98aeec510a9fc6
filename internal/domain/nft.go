package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFTMetadata is the token metadata published alongside a mint
type NFTMetadata struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Image       string                   `json:"image"` // IPFS/Irys URL
	ExternalURL string                   `json:"external_url,omitempty"`
	Attributes  []map[string]interface{} `json:"attributes,omitempty"`
}

// NFT ties an article to an on-chain token. Minting and marketplace listing
// are plain field transitions recorded here; chain interaction happens
// client-side.
type NFT struct {
	ID                string          `json:"id"`
	ArticleID         string          `json:"article_id"`
	TokenID           string          `json:"token_id,omitempty"`
	ContractAddress   string          `json:"contract_address,omitempty"`
	ChainID           int             `json:"chain_id"`
	Metadata          NFTMetadata     `json:"metadata"`
	CreatorWallet     string          `json:"creator_wallet"`
	Supply            int             `json:"supply"`
	Price             decimal.Decimal `json:"price"`
	Currency          Currency        `json:"currency"`
	RoyaltyPercentage float64         `json:"royalty_percentage"`
	IsListed          bool            `json:"is_listed"`
	IsMinted          bool            `json:"is_minted"`
	MintTxHash        string          `json:"mint_transaction_hash,omitempty"`
	TotalSales        int64           `json:"total_sales"`
	TotalVolume       decimal.Decimal `json:"total_volume"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NFTInput is the payload for creating an NFT
type NFTInput struct {
	ArticleID         string          `json:"article_id"`
	ChainID           int             `json:"chain_id"`
	Metadata          NFTMetadata     `json:"metadata"`
	CreatorWallet     string          `json:"creator_wallet"`
	Supply            int             `json:"supply"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	RoyaltyPercentage float64         `json:"royalty_percentage"`
}

// NFTUpdate carries partial updates; nil fields are untouched
type NFTUpdate struct {
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	IsListed *bool            `json:"is_listed,omitempty"`
}

// NFTSale records a completed or pending marketplace sale
type NFTSale struct {
	ID              string          `json:"id"`
	NFTID           string          `json:"nft_id"`
	SellerWallet    string          `json:"seller_wallet"`
	BuyerWallet     string          `json:"buyer_wallet"`
	Price           decimal.Decimal `json:"price"`
	Currency        Currency        `json:"currency"`
	RoyaltyAmount   decimal.Decimal `json:"royalty_amount"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Status          PaymentStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NFTSaleInput is the payload for recording a sale
type NFTSaleInput struct {
	NFTID         string          `json:"nft_id"`
	SellerWallet  string          `json:"seller_wallet"`
	BuyerWallet   string          `json:"buyer_wallet"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	RoyaltyAmount decimal.Decimal `json:"royalty_amount"`
}

// NFTCollection groups NFTs by a creator-defined theme
type NFTCollection struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CreatorWallet string          `json:"creator_wallet"`
	CoverImage    string          `json:"cover_image,omitempty"`
	Category      string          `json:"category"`
	TotalItems    int64           `json:"total_items"`
	TotalVolume   decimal.Decimal `json:"total_volume"`
	FloorPrice    decimal.Decimal `json:"floor_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NFTCollectionInput is the payload for creating a collection
type NFTCollectionInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CreatorWallet string `json:"creator_wallet"`
	CoverImage    string `json:"cover_image,omitempty"`
	Category      string `json:"category"`
}

// NFTStats is a cross-collection rollup: counts, exact-decimal volume, the
// cheapest listed price and distinct buyer count.
type NFTStats struct {
	TotalNFTs    int64           `json:"total_nfts"`
	TotalVolume  decimal.Decimal `json:"total_volume"`
	TotalSales   int64           `json:"total_sales"`
	FloorPrice   decimal.Decimal `json:"floor_price"`
	UniqueOwners int64           `json:"unique_owners"`
	AveragePrice decimal.Decimal `json:"average_price"`
}
