package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS nft_collections CASCADE`,
		`DROP TABLE IF EXISTS nft_sales CASCADE`,
		`DROP TABLE IF EXISTS nfts CASCADE`,
		`DROP TABLE IF EXISTS subscriptions CASCADE`,
		`DROP TABLE IF EXISTS purchases CASCADE`,
		`DROP TABLE IF EXISTS paid_content CASCADE`,
		`DROP TABLE IF EXISTS tips CASCADE`,
		`DROP TABLE IF EXISTS reactions CASCADE`,
		`DROP TABLE IF EXISTS comments CASCADE`,
		`DROP TABLE IF EXISTS platform_stats CASCADE`,
		`DROP TABLE IF EXISTS author_stats CASCADE`,
		`DROP TABLE IF EXISTS article_stats CASCADE`,
		`DROP TABLE IF EXISTS engagement_events CASCADE`,
		`DROP TABLE IF EXISTS page_views CASCADE`,
		`DROP TABLE IF EXISTS authors CASCADE`,
		`DROP TABLE IF EXISTS articles CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		// Article catalog
		`CREATE TABLE IF NOT EXISTS articles (
			id UUID PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			content TEXT NOT NULL,
			html TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			author_wallet VARCHAR(255) NOT NULL,
			author_name VARCHAR(255) NOT NULL DEFAULT '',
			irys_id VARCHAR(255) NOT NULL DEFAULT '',
			irys_url VARCHAR(500) NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			category VARCHAR(100) NOT NULL DEFAULT '',
			reading_time INTEGER NOT NULL DEFAULT 1,
			word_count INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'published',
			published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			views BIGINT NOT NULL DEFAULT 0
		)`,

		// Author profiles; counters are maintained via upserts keyed on wallet
		`CREATE TABLE IF NOT EXISTS authors (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			wallet_address VARCHAR(255) UNIQUE NOT NULL,
			username VARCHAR(255) NOT NULL DEFAULT '',
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			avatar_irys_id VARCHAR(255) NOT NULL DEFAULT '',
			cover_image_irys_id VARCHAR(255) NOT NULL DEFAULT '',
			social_links JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			total_articles BIGINT NOT NULL DEFAULT 0,
			total_views BIGINT NOT NULL DEFAULT 0,
			active_subscribers BIGINT NOT NULL DEFAULT 0
		)`,

		// Append-only page view ledger
		`CREATE TABLE IF NOT EXISTS page_views (
			id UUID PRIMARY KEY,
			article_id VARCHAR(255) NOT NULL,
			actor_wallet VARCHAR(255) NOT NULL DEFAULT '',
			ip_address VARCHAR(64) NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			referrer TEXT NOT NULL DEFAULT '',
			session_id VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			view_date DATE NOT NULL
		)`,

		// Append-only engagement ledger
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id UUID PRIMARY KEY,
			actor_wallet VARCHAR(255) NOT NULL DEFAULT '',
			action_type VARCHAR(20) NOT NULL,
			target_id VARCHAR(255) NOT NULL,
			target_type VARCHAR(20) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			engagement_date DATE NOT NULL
		)`,

		// Materialized per-article stats
		`CREATE TABLE IF NOT EXISTS article_stats (
			article_id VARCHAR(255) PRIMARY KEY,
			total_views BIGINT NOT NULL DEFAULT 0,
			unique_views BIGINT NOT NULL DEFAULT 0,
			total_likes BIGINT NOT NULL DEFAULT 0,
			total_comments BIGINT NOT NULL DEFAULT 0,
			total_shares BIGINT NOT NULL DEFAULT 0,
			total_tips BIGINT NOT NULL DEFAULT 0,
			total_tip_amount NUMERIC(36, 18) NOT NULL DEFAULT 0,
			engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Materialized per-author stats
		`CREATE TABLE IF NOT EXISTS author_stats (
			author_wallet VARCHAR(255) PRIMARY KEY,
			total_articles BIGINT NOT NULL DEFAULT 0,
			total_views BIGINT NOT NULL DEFAULT 0,
			total_likes BIGINT NOT NULL DEFAULT 0,
			total_comments BIGINT NOT NULL DEFAULT 0,
			avg_article_views DOUBLE PRECISION NOT NULL DEFAULT 0,
			engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Daily platform snapshots keyed by UTC date
		`CREATE TABLE IF NOT EXISTS platform_stats (
			stats_date DATE PRIMARY KEY,
			total_users BIGINT NOT NULL DEFAULT 0,
			total_articles BIGINT NOT NULL DEFAULT 0,
			total_views BIGINT NOT NULL DEFAULT 0,
			total_likes BIGINT NOT NULL DEFAULT 0,
			total_comments BIGINT NOT NULL DEFAULT 0,
			active_users BIGINT NOT NULL DEFAULT 0,
			new_users BIGINT NOT NULL DEFAULT 0,
			new_articles BIGINT NOT NULL DEFAULT 0
		)`,

		// Comments; top-level rows carry an empty parent_id
		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			article_id VARCHAR(255) NOT NULL,
			parent_id VARCHAR(255) NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			author_wallet VARCHAR(255) NOT NULL,
			author_name VARCHAR(255) NOT NULL DEFAULT '',
			likes BIGINT NOT NULL DEFAULT 0,
			dislikes BIGINT NOT NULL DEFAULT 0,
			is_edited BOOLEAN NOT NULL DEFAULT FALSE,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// One reaction per wallet per comment
		`CREATE TABLE IF NOT EXISTS reactions (
			id UUID PRIMARY KEY,
			comment_id VARCHAR(255) NOT NULL,
			user_wallet VARCHAR(255) NOT NULL,
			reaction_type VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(comment_id, user_wallet)
		)`,

		// Tips
		`CREATE TABLE IF NOT EXISTS tips (
			id UUID PRIMARY KEY,
			from_wallet VARCHAR(255) NOT NULL,
			to_wallet VARCHAR(255) NOT NULL,
			article_id VARCHAR(255) NOT NULL DEFAULT '',
			amount NUMERIC(36, 18) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			tx_hash VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Paid content settings, one row per article
		`CREATE TABLE IF NOT EXISTS paid_content (
			id UUID PRIMARY KEY,
			article_id VARCHAR(255) UNIQUE NOT NULL,
			price NUMERIC(36, 18) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			preview_length INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			total_purchases BIGINT NOT NULL DEFAULT 0,
			total_revenue NUMERIC(36, 18) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Purchases
		`CREATE TABLE IF NOT EXISTS purchases (
			id UUID PRIMARY KEY,
			buyer_wallet VARCHAR(255) NOT NULL,
			article_id VARCHAR(255) NOT NULL,
			amount NUMERIC(36, 18) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			tx_hash VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Subscriptions
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			subscriber_wallet VARCHAR(255) NOT NULL,
			author_wallet VARCHAR(255) NOT NULL,
			amount NUMERIC(36, 18) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			billing_interval VARCHAR(10) NOT NULL,
			next_billing TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			total_paid NUMERIC(36, 18) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// NFTs, one per article
		`CREATE TABLE IF NOT EXISTS nfts (
			id UUID PRIMARY KEY,
			article_id VARCHAR(255) UNIQUE NOT NULL,
			token_id VARCHAR(255) NOT NULL DEFAULT '',
			contract_address VARCHAR(255) NOT NULL DEFAULT '',
			chain_id INTEGER NOT NULL DEFAULT 1,
			metadata JSONB NOT NULL DEFAULT '{}',
			creator_wallet VARCHAR(255) NOT NULL,
			supply INTEGER NOT NULL DEFAULT 1,
			price NUMERIC(36, 18),
			currency VARCHAR(10),
			royalty_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_listed BOOLEAN NOT NULL DEFAULT FALSE,
			is_minted BOOLEAN NOT NULL DEFAULT FALSE,
			mint_tx_hash VARCHAR(255) NOT NULL DEFAULT '',
			total_sales BIGINT NOT NULL DEFAULT 0,
			total_volume NUMERIC(36, 18) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// NFT sales history
		`CREATE TABLE IF NOT EXISTS nft_sales (
			id UUID PRIMARY KEY,
			nft_id VARCHAR(255) NOT NULL,
			seller_wallet VARCHAR(255) NOT NULL,
			buyer_wallet VARCHAR(255) NOT NULL,
			price NUMERIC(36, 18) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			royalty_amount NUMERIC(36, 18) NOT NULL DEFAULT 0,
			tx_hash VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// NFT collections
		`CREATE TABLE IF NOT EXISTS nft_collections (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			creator_wallet VARCHAR(255) NOT NULL,
			cover_image VARCHAR(500) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			total_items BIGINT NOT NULL DEFAULT 0,
			total_volume NUMERIC(36, 18) NOT NULL DEFAULT 0,
			floor_price NUMERIC(36, 18),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Indexes on the hot read paths
		`CREATE INDEX IF NOT EXISTS idx_page_views_article_id ON page_views(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_page_views_created_at ON page_views(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_target ON engagement_events(target_id, target_type)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_actor ON engagement_events(actor_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_created_at ON engagement_events(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_tags ON articles USING GIN(tags)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tips_to_wallet ON tips(to_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_tips_from_wallet ON tips(from_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_buyer ON purchases(buyer_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_article ON purchases(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_subscriber ON subscriptions(subscriber_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_author ON subscriptions(author_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_nfts_creator ON nfts(creator_wallet)`,
		`CREATE INDEX IF NOT EXISTS idx_nft_sales_nft ON nft_sales(nft_id)`,
		`CREATE INDEX IF NOT EXISTS idx_nft_collections_creator ON nft_collections(creator_wallet)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
	}

	return nil
}
