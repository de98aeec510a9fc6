package service

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nftFixture struct {
	nfts     *fakeNFTRepo
	articles *fakeArticleRepo
	svc      NFTService
}

func newNFTFixture(t *testing.T) *nftFixture {
	t.Helper()

	log, err := logger.New("error")
	require.NoError(t, err)

	f := &nftFixture{
		nfts:     &fakeNFTRepo{},
		articles: &fakeArticleRepo{},
	}
	f.svc = NewNFTService(f.nfts, f.articles, log)
	return f
}

func (f *nftFixture) addArticle(id string) {
	f.articles.articles = append(f.articles.articles, &domain.Article{
		ID:           id,
		Title:        "Article " + id,
		AuthorWallet: "0xcreator",
		Status:       domain.ArticleStatusPublished,
		CreatedAt:    time.Now().UTC(),
	})
}

func (f *nftFixture) mintNFT(t *testing.T, articleID, creator string) *domain.NFT {
	t.Helper()
	f.addArticle(articleID)
	nft, err := f.svc.Create(context.Background(), &domain.NFTInput{
		ArticleID:     articleID,
		ChainID:       137,
		CreatorWallet: creator,
		Supply:        1,
		Price:         decimal.RequireFromString("1"),
		Currency:      "MATIC",
	})
	require.NoError(t, err)
	_, err = f.svc.Mint(context.Background(), nft.ID, "0xtx-"+nft.ID)
	require.NoError(t, err)
	return nft
}

func TestNFTCreate(t *testing.T) {
	f := newNFTFixture(t)
	f.addArticle("art-1")

	nft, err := f.svc.Create(context.Background(), &domain.NFTInput{
		ArticleID:         "art-1",
		ChainID:           137,
		CreatorWallet:     "0xcreator",
		Supply:            10,
		Price:             decimal.RequireFromString("0.5"),
		Currency:          "MATIC",
		RoyaltyPercentage: 10,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, nft.ID)
	assert.False(t, nft.IsMinted)
	assert.False(t, nft.IsListed)
	assert.Equal(t, domain.CurrencyMATIC, nft.Currency)

	got, err := f.svc.GetByArticle(context.Background(), "art-1")
	require.NoError(t, err)
	assert.Equal(t, nft.ID, got.ID)
}

func TestNFTCreate_Validation(t *testing.T) {
	f := newNFTFixture(t)
	f.addArticle("art-1")

	base := func() *domain.NFTInput {
		return &domain.NFTInput{
			ArticleID:     "art-1",
			CreatorWallet: "0xcreator",
			Supply:        1,
			Price:         decimal.RequireFromString("1"),
			Currency:      "ETH",
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.NFTInput)
	}{
		{name: "missing article", mutate: func(in *domain.NFTInput) { in.ArticleID = "" }},
		{name: "missing creator", mutate: func(in *domain.NFTInput) { in.CreatorWallet = "" }},
		{name: "zero supply", mutate: func(in *domain.NFTInput) { in.Supply = 0 }},
		{name: "royalty above cap", mutate: func(in *domain.NFTInput) { in.RoyaltyPercentage = 51 }},
		{name: "negative royalty", mutate: func(in *domain.NFTInput) { in.RoyaltyPercentage = -1 }},
		{name: "unknown currency", mutate: func(in *domain.NFTInput) { in.Currency = "BTC" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base()
			tt.mutate(input)
			_, err := f.svc.Create(context.Background(), input)
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		})
	}

	assert.Empty(t, f.nfts.nfts)
}

func TestNFTCreate_OnePerArticle(t *testing.T) {
	f := newNFTFixture(t)
	f.mintNFT(t, "art-1", "0xcreator")

	_, err := f.svc.Create(context.Background(), &domain.NFTInput{
		ArticleID:     "art-1",
		CreatorWallet: "0xother",
		Supply:        1,
		Price:         decimal.RequireFromString("1"),
		Currency:      "ETH",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
}

func TestNFTMint(t *testing.T) {
	f := newNFTFixture(t)
	f.addArticle("art-1")

	created, err := f.svc.Create(context.Background(), &domain.NFTInput{
		ArticleID:     "art-1",
		CreatorWallet: "0xcreator",
		Supply:        1,
		Price:         decimal.RequireFromString("1"),
		Currency:      "ETH",
	})
	require.NoError(t, err)

	minted, err := f.svc.Mint(context.Background(), created.ID, "0xabc123")
	require.NoError(t, err)
	assert.True(t, minted.IsMinted)
	assert.Equal(t, "0xabc123", minted.MintTxHash)

	// minting twice is a conflict, an unknown id is not found
	_, err = f.svc.Mint(context.Background(), created.ID, "0xdef456")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)

	_, err = f.svc.Mint(context.Background(), "missing", "0xdef456")
	require.Error(t, err)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
}

func TestNFTList(t *testing.T) {
	f := newNFTFixture(t)
	nft := f.mintNFT(t, "art-1", "0xcreator")

	listed, err := f.svc.List(context.Background(), nft.ID, "2.5", "ETH")
	require.NoError(t, err)
	assert.True(t, listed.IsListed)
	assert.True(t, listed.Price.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, domain.CurrencyETH, listed.Currency)

	unlisted, err := f.svc.Unlist(context.Background(), nft.ID)
	require.NoError(t, err)
	assert.False(t, unlisted.IsListed)
}

func TestNFTList_RequiresMint(t *testing.T) {
	f := newNFTFixture(t)
	f.addArticle("art-1")

	created, err := f.svc.Create(context.Background(), &domain.NFTInput{
		ArticleID:     "art-1",
		CreatorWallet: "0xcreator",
		Supply:        1,
		Price:         decimal.RequireFromString("1"),
		Currency:      "ETH",
	})
	require.NoError(t, err)

	_, err = f.svc.List(context.Background(), created.ID, "", "")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestNFTGetListed_PriceBounds(t *testing.T) {
	f := newNFTFixture(t)

	cheap := f.mintNFT(t, "art-1", "0xcreator")
	pricey := f.mintNFT(t, "art-2", "0xcreator")
	_, err := f.svc.List(context.Background(), cheap.ID, "1", "ETH")
	require.NoError(t, err)
	_, err = f.svc.List(context.Background(), pricey.ID, "10", "ETH")
	require.NoError(t, err)

	all, err := f.svc.GetListed(context.Background(), 20, 0, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upper, err := f.svc.GetListed(context.Background(), 20, 0, "", "5")
	require.NoError(t, err)
	require.Len(t, upper, 1)
	assert.Equal(t, cheap.ID, upper[0].ID)

	lower, err := f.svc.GetListed(context.Background(), 20, 0, "5", "")
	require.NoError(t, err)
	require.Len(t, lower, 1)
	assert.Equal(t, pricey.ID, lower[0].ID)

	_, err = f.svc.GetListed(context.Background(), 20, 0, "not-a-number", "")
	require.Error(t, err)
}

func TestNFTRecordSale(t *testing.T) {
	f := newNFTFixture(t)
	nft := f.mintNFT(t, "art-1", "0xcreator")
	_, err := f.svc.List(context.Background(), nft.ID, "3", "ETH")
	require.NoError(t, err)

	sale, err := f.svc.RecordSale(context.Background(), &domain.NFTSaleInput{
		NFTID:         nft.ID,
		SellerWallet:  "0xcreator",
		BuyerWallet:   "0xbuyer",
		Price:         decimal.RequireFromString("3"),
		Currency:      "ETH",
		RoyaltyAmount: decimal.RequireFromString("0.3"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, sale.Status)

	// a sale bumps the counters and takes the NFT off the marketplace
	after, err := f.svc.Get(context.Background(), nft.ID)
	require.NoError(t, err)
	assert.False(t, after.IsListed)
	assert.Equal(t, int64(1), after.TotalSales)
	assert.True(t, after.TotalVolume.Equal(decimal.RequireFromString("3")))

	byNFT, err := f.svc.GetSales(context.Background(), nft.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byNFT, 1)

	byBuyer, err := f.svc.GetSalesByWallet(context.Background(), "0xbuyer", 20, 0)
	require.NoError(t, err)
	assert.Len(t, byBuyer, 1)
}

func TestNFTRecordSale_Validation(t *testing.T) {
	f := newNFTFixture(t)
	nft := f.mintNFT(t, "art-1", "0xcreator")

	_, err := f.svc.RecordSale(context.Background(), &domain.NFTSaleInput{
		NFTID:        nft.ID,
		SellerWallet: "0xcreator",
		BuyerWallet:  "0xbuyer",
		Price:        decimal.RequireFromString("0.00001"),
		Currency:     "ETH",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)

	_, err = f.svc.RecordSale(context.Background(), &domain.NFTSaleInput{
		NFTID:        "missing",
		SellerWallet: "0xcreator",
		BuyerWallet:  "0xbuyer",
		Price:        decimal.RequireFromString("1"),
		Currency:     "ETH",
	})
	require.Error(t, err)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
	assert.Empty(t, f.nfts.sales)
}

func TestNFTCollections(t *testing.T) {
	f := newNFTFixture(t)

	collection, err := f.svc.CreateCollection(context.Background(), &domain.NFTCollectionInput{
		Name:          "Genesis Essays",
		Description:   "first drops",
		CreatorWallet: "0xcreator",
		Category:      "writing",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, collection.ID)

	got, err := f.svc.GetCollection(context.Background(), collection.ID)
	require.NoError(t, err)
	assert.Equal(t, "Genesis Essays", got.Name)

	mine, err := f.svc.GetCollectionsByCreator(context.Background(), "0xcreator", 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := f.svc.GetCollectionsByCreator(context.Background(), "0xother", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = f.svc.CreateCollection(context.Background(), &domain.NFTCollectionInput{
		CreatorWallet: "0xcreator",
	})
	require.Error(t, err)
}

func TestNFTStats(t *testing.T) {
	f := newNFTFixture(t)

	a := f.mintNFT(t, "art-1", "0xalice")
	b := f.mintNFT(t, "art-2", "0xbob")

	_, err := f.svc.List(context.Background(), a.ID, "2", "ETH")
	require.NoError(t, err)
	_, err = f.svc.List(context.Background(), b.ID, "4", "ETH")
	require.NoError(t, err)

	_, err = f.svc.RecordSale(context.Background(), &domain.NFTSaleInput{
		NFTID:        a.ID,
		SellerWallet: "0xalice",
		BuyerWallet:  "0xbuyer",
		Price:        decimal.RequireFromString("2"),
		Currency:     "ETH",
	})
	require.NoError(t, err)

	global, err := f.svc.GetGlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), global.TotalNFTs)
	assert.Equal(t, int64(1), global.TotalSales)
	assert.True(t, global.TotalVolume.Equal(decimal.RequireFromString("2")))
	assert.Equal(t, int64(1), global.UniqueOwners)
	// a's sale unlisted it, so b holds the floor
	assert.True(t, global.FloorPrice.Equal(decimal.RequireFromString("4")))

	alice, err := f.svc.GetCreatorStats(context.Background(), "0xalice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.TotalNFTs)
	assert.Equal(t, int64(1), alice.TotalSales)
	assert.True(t, alice.TotalVolume.Equal(decimal.RequireFromString("2")))

	bob, err := f.svc.GetCreatorStats(context.Background(), "0xbob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bob.TotalSales)
	assert.True(t, bob.TotalVolume.IsZero())

	_, err = f.svc.GetCreatorStats(context.Background(), "")
	require.Error(t, err)
}
