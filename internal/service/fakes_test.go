package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"inkwell/internal/domain"

	"github.com/shopspring/decimal"
)

// In-memory fakes for the repository interfaces. They mirror the SQL
// semantics closely enough for service-level assertions: newest-first
// ordering, nil on absent rows, idempotent upserts.

type fakePageViewRepo struct {
	views     []*domain.PageView
	insertErr error
	countErr  error
}

func (f *fakePageViewRepo) Insert(ctx context.Context, view *domain.PageView) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.views = append(f.views, view)
	return nil
}

func (f *fakePageViewRepo) CountByArticle(ctx context.Context, articleID string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, v := range f.views {
		if v.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}

func (f *fakePageViewRepo) CountDistinctIPsByArticle(ctx context.Context, articleID string) (int64, error) {
	ips := make(map[string]struct{})
	for _, v := range f.views {
		if v.ArticleID == articleID {
			ips[v.IPAddress] = struct{}{}
		}
	}
	return int64(len(ips)), nil
}

func (f *fakePageViewRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.views)), nil
}

func (f *fakePageViewRepo) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.PageView, error) {
	var out []*domain.PageView
	for i := len(f.views) - 1; i >= 0; i-- {
		if f.views[i].ArticleID == articleID {
			out = append(out, f.views[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

type fakeEngagementRepo struct {
	events    []*domain.EngagementEvent
	insertErr error
}

func (f *fakeEngagementRepo) Insert(ctx context.Context, event *domain.EngagementEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEngagementRepo) CountByTarget(ctx context.Context, targetID string, targetType domain.TargetType, actionType domain.ActionType) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.TargetID == targetID && e.TargetType == targetType && e.ActionType == actionType {
			n++
		}
	}
	return n, nil
}

func (f *fakeEngagementRepo) CountByAction(ctx context.Context, actionType domain.ActionType) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.ActionType == actionType {
			n++
		}
	}
	return n, nil
}

func (f *fakeEngagementRepo) CountDistinctActors(ctx context.Context, from, to time.Time) (int64, error) {
	actors := make(map[string]struct{})
	for _, e := range f.events {
		if e.ActorWallet == "" {
			continue
		}
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			actors[e.ActorWallet] = struct{}{}
		}
	}
	return int64(len(actors)), nil
}

func (f *fakeEngagementRepo) GroupByArticle(ctx context.Context, since time.Time, limit int) ([]*domain.EngagementWindow, error) {
	groups := make(map[string]*domain.EngagementWindow)
	for _, e := range f.events {
		if e.TargetType != domain.TargetArticle || e.CreatedAt.Before(since) {
			continue
		}
		w, ok := groups[e.TargetID]
		if !ok {
			w = &domain.EngagementWindow{TargetID: e.TargetID}
			groups[e.TargetID] = w
		}
		w.Views++
		switch e.ActionType {
		case domain.ActionLike:
			w.Likes++
		case domain.ActionComment:
			w.Comments++
		case domain.ActionShare:
			w.Shares++
		}
	}

	out := make([]*domain.EngagementWindow, 0, len(groups))
	for _, w := range groups {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEngagementRepo) ListByActor(ctx context.Context, wallet string, limit, offset int) ([]*domain.EngagementEvent, error) {
	var out []*domain.EngagementEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].ActorWallet == wallet {
			out = append(out, f.events[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

type fakeStatsRepo struct {
	articleStats  map[string]*domain.ArticleStats
	authorStats   map[string]*domain.AuthorStats
	platformStats map[string]*domain.PlatformStats

	articleUpserts int
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		articleStats:  make(map[string]*domain.ArticleStats),
		authorStats:   make(map[string]*domain.AuthorStats),
		platformStats: make(map[string]*domain.PlatformStats),
	}
}

func (f *fakeStatsRepo) UpsertArticleStats(ctx context.Context, stats *domain.ArticleStats) error {
	f.articleUpserts++
	cp := *stats
	f.articleStats[stats.ArticleID] = &cp
	return nil
}

func (f *fakeStatsRepo) GetArticleStats(ctx context.Context, articleID string) (*domain.ArticleStats, error) {
	return f.articleStats[articleID], nil
}

func (f *fakeStatsRepo) UpsertAuthorStats(ctx context.Context, stats *domain.AuthorStats) error {
	cp := *stats
	f.authorStats[stats.AuthorWallet] = &cp
	return nil
}

func (f *fakeStatsRepo) GetAuthorStats(ctx context.Context, wallet string) (*domain.AuthorStats, error) {
	return f.authorStats[wallet], nil
}

func (f *fakeStatsRepo) TopAuthors(ctx context.Context, metric string, limit int) ([]*domain.AuthorStats, error) {
	switch metric {
	case "total_views", "total_likes", "total_articles", "engagement_rate":
	default:
		return nil, fmt.Errorf("unsupported top authors metric %q", metric)
	}
	out := make([]*domain.AuthorStats, 0, len(f.authorStats))
	for _, s := range f.authorStats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		switch metric {
		case "total_likes":
			return out[i].TotalLikes > out[j].TotalLikes
		case "total_articles":
			return out[i].TotalArticles > out[j].TotalArticles
		case "engagement_rate":
			return out[i].EngagementRate > out[j].EngagementRate
		default:
			return out[i].TotalViews > out[j].TotalViews
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStatsRepo) UpsertPlatformStats(ctx context.Context, stats *domain.PlatformStats) error {
	cp := *stats
	f.platformStats[stats.StatsDate.Format("2006-01-02")] = &cp
	return nil
}

func (f *fakeStatsRepo) GetPlatformStatsByDate(ctx context.Context, date time.Time) (*domain.PlatformStats, error) {
	return f.platformStats[date.Format("2006-01-02")], nil
}

func (f *fakeStatsRepo) ListPlatformStats(ctx context.Context, since time.Time, limit int) ([]*domain.PlatformStats, error) {
	out := make([]*domain.PlatformStats, 0, len(f.platformStats))
	for _, s := range f.platformStats {
		if !s.StatsDate.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StatsDate.After(out[j].StatsDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeArticleRepo struct {
	articles []*domain.Article
}

func (f *fakeArticleRepo) Insert(ctx context.Context, article *domain.Article) error {
	f.articles = append(f.articles, article)
	return nil
}

func (f *fakeArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			// return a copy, like a scanned row; callers must not be able
			// to mutate stored state through the result
			row := *a
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeArticleRepo) SetIrys(ctx context.Context, id, irysID, irysURL string) error {
	for _, a := range f.articles {
		if a.ID == id {
			a.IrysID = irysID
			a.IrysURL = irysURL
		}
	}
	return nil
}

func (f *fakeArticleRepo) IncrementViews(ctx context.Context, id string) error {
	for _, a := range f.articles {
		if a.ID == id {
			a.Views++
		}
	}
	return nil
}

func (f *fakeArticleRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	var out []*domain.Article
	for i := len(f.articles) - 1; i >= 0; i-- {
		if f.articles[i].Status == domain.ArticleStatusPublished {
			out = append(out, f.articles[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeArticleRepo) ListByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Article, error) {
	var out []*domain.Article
	for i := len(f.articles) - 1; i >= 0; i-- {
		if f.articles[i].AuthorWallet == wallet {
			out = append(out, f.articles[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeArticleRepo) EnumerateByAuthor(ctx context.Context, wallet string, max int) ([]string, error) {
	var ids []string
	for _, a := range f.articles {
		if a.AuthorWallet == wallet {
			ids = append(ids, a.ID)
			if len(ids) == max {
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeArticleRepo) Search(ctx context.Context, query *domain.ArticleSearchQuery) ([]*domain.Article, error) {
	var out []*domain.Article
	for _, a := range f.articles {
		if query.Query != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(query.Query)) {
			continue
		}
		if query.Author != "" && a.AuthorWallet != query.Author {
			continue
		}
		if query.Category != "" && a.Category != query.Category {
			continue
		}
		out = append(out, a)
	}
	return slicePage(out, query.Limit, query.Offset), nil
}

func (f *fakeArticleRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(f.articles)), nil
}

func (f *fakeArticleRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, a := range f.articles {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type fakeAuthorRepo struct {
	profiles map[string]*domain.AuthorProfile
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{profiles: make(map[string]*domain.AuthorProfile)}
}

func (f *fakeAuthorRepo) Insert(ctx context.Context, profile *domain.AuthorProfile) error {
	f.profiles[profile.WalletAddress] = profile
	return nil
}

func (f *fakeAuthorRepo) GetByWallet(ctx context.Context, wallet string) (*domain.AuthorProfile, error) {
	return f.profiles[wallet], nil
}

func (f *fakeAuthorRepo) Update(ctx context.Context, wallet string, upd *domain.AuthorProfileUpdate) (*domain.AuthorProfile, error) {
	p, ok := f.profiles[wallet]
	if !ok {
		return nil, nil
	}
	if upd.Username != nil {
		p.Username = *upd.Username
	}
	if upd.DisplayName != nil {
		p.DisplayName = *upd.DisplayName
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if upd.AvatarIrysID != nil {
		p.AvatarIrysID = *upd.AvatarIrysID
	}
	if upd.CoverImageIrysID != nil {
		p.CoverImageIrysID = *upd.CoverImageIrysID
	}
	if upd.SocialLinks != nil {
		p.SocialLinks = upd.SocialLinks
	}
	return p, nil
}

func (f *fakeAuthorRepo) List(ctx context.Context, limit, offset int) ([]*domain.AuthorProfile, error) {
	out := make([]*domain.AuthorProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WalletAddress < out[j].WalletAddress })
	return slicePage(out, limit, offset), nil
}

func (f *fakeAuthorRepo) CountDistinctWallets(ctx context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}

func (f *fakeAuthorRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, p := range f.profiles {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAuthorRepo) ensure(wallet string) *domain.AuthorProfile {
	p, ok := f.profiles[wallet]
	if !ok {
		p = &domain.AuthorProfile{WalletAddress: wallet, SocialLinks: map[string]string{}}
		f.profiles[wallet] = p
	}
	return p
}

func (f *fakeAuthorRepo) IncrementArticleCount(ctx context.Context, wallet string, delta int64) error {
	p := f.ensure(wallet)
	p.TotalArticles += delta
	if p.TotalArticles < 0 {
		p.TotalArticles = 0
	}
	return nil
}

func (f *fakeAuthorRepo) IncrementViewCount(ctx context.Context, wallet string, delta int64) error {
	p := f.ensure(wallet)
	p.TotalViews += delta
	if p.TotalViews < 0 {
		p.TotalViews = 0
	}
	return nil
}

func (f *fakeAuthorRepo) IncrementActiveSubscribers(ctx context.Context, wallet string, delta int64) error {
	p := f.ensure(wallet)
	p.ActiveSubscribers += delta
	if p.ActiveSubscribers < 0 {
		p.ActiveSubscribers = 0
	}
	return nil
}

type fakeCommentRepo struct {
	comments  []*domain.Comment
	reactions map[string]map[string]domain.ReactionType // commentID -> wallet -> type
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{reactions: make(map[string]map[string]domain.ReactionType)}
}

func (f *fakeCommentRepo) Insert(ctx context.Context, comment *domain.Comment) error {
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCommentRepo) ListTopLevelByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for i := len(f.comments) - 1; i >= 0; i-- {
		c := f.comments[i]
		if c.ArticleID == articleID && c.ParentID == "" {
			out = append(out, c)
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeCommentRepo) ListReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.comments {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) UpdateContent(ctx context.Context, id, content string, now time.Time) (*domain.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id && !c.IsDeleted {
			c.Content = content
			c.IsEdited = true
			c.UpdatedAt = now
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCommentRepo) SoftDelete(ctx context.Context, id string, now time.Time) (bool, error) {
	for _, c := range f.comments {
		if c.ID == id && !c.IsDeleted {
			c.IsDeleted = true
			c.Content = "[deleted]"
			c.UpdatedAt = now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommentRepo) UpsertReaction(ctx context.Context, reaction *domain.Reaction) error {
	m, ok := f.reactions[reaction.CommentID]
	if !ok {
		m = make(map[string]domain.ReactionType)
		f.reactions[reaction.CommentID] = m
	}
	m[reaction.ActorWallet] = reaction.ReactionType
	return nil
}

func (f *fakeCommentRepo) DeleteReaction(ctx context.Context, commentID, wallet string) (bool, error) {
	m, ok := f.reactions[commentID]
	if !ok {
		return false, nil
	}
	if _, ok := m[wallet]; !ok {
		return false, nil
	}
	delete(m, wallet)
	return true, nil
}

func (f *fakeCommentRepo) CountReactions(ctx context.Context, commentID string, reactionType domain.ReactionType) (int64, error) {
	var n int64
	for _, rt := range f.reactions[commentID] {
		if rt == reactionType {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentRepo) SetReactionCounts(ctx context.Context, commentID string, likes, dislikes int64) error {
	for _, c := range f.comments {
		if c.ID == commentID {
			c.Likes = likes
			c.Dislikes = dislikes
		}
	}
	return nil
}

type fakeMonetizationRepo struct {
	tips          []*domain.Tip
	paidContent   map[string]*domain.PaidContent
	purchases     []*domain.Purchase
	subscriptions []*domain.Subscription
}

func newFakeMonetizationRepo() *fakeMonetizationRepo {
	return &fakeMonetizationRepo{paidContent: make(map[string]*domain.PaidContent)}
}

func (f *fakeMonetizationRepo) InsertTip(ctx context.Context, tip *domain.Tip) error {
	f.tips = append(f.tips, tip)
	return nil
}

func (f *fakeMonetizationRepo) ListTipsReceived(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	var out []*domain.Tip
	for i := len(f.tips) - 1; i >= 0; i-- {
		if f.tips[i].ToWallet == wallet {
			out = append(out, f.tips[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeMonetizationRepo) ListTipsSent(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	var out []*domain.Tip
	for i := len(f.tips) - 1; i >= 0; i-- {
		if f.tips[i].FromWallet == wallet {
			out = append(out, f.tips[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeMonetizationRepo) TipTotalsByArticle(ctx context.Context, articleID string) (int64, decimal.Decimal, error) {
	var count int64
	total := decimal.Zero
	for _, t := range f.tips {
		if t.ArticleID == articleID {
			count++
			total = total.Add(t.Amount)
		}
	}
	return count, total, nil
}

func (f *fakeMonetizationRepo) TipsReceivedRollup(ctx context.Context, wallet string, max int) (decimal.Decimal, int64, []string, error) {
	total := decimal.Zero
	var count int64
	seen := make(map[string]struct{})
	var articleIDs []string
	for _, t := range f.tips {
		if t.ToWallet != wallet {
			continue
		}
		if max > 0 && count == int64(max) {
			break
		}
		count++
		total = total.Add(t.Amount)
		if t.ArticleID != "" {
			if _, ok := seen[t.ArticleID]; !ok {
				seen[t.ArticleID] = struct{}{}
				articleIDs = append(articleIDs, t.ArticleID)
			}
		}
	}
	return total, count, articleIDs, nil
}

func (f *fakeMonetizationRepo) InsertPaidContent(ctx context.Context, pc *domain.PaidContent) error {
	f.paidContent[pc.ArticleID] = pc
	return nil
}

func (f *fakeMonetizationRepo) GetPaidContent(ctx context.Context, articleID string, activeOnly bool) (*domain.PaidContent, error) {
	pc, ok := f.paidContent[articleID]
	if !ok {
		return nil, nil
	}
	if activeOnly && !pc.IsActive {
		return nil, nil
	}
	return pc, nil
}

func (f *fakeMonetizationRepo) UpdatePaidContent(ctx context.Context, articleID string, upd *domain.PaidContentUpdate) (*domain.PaidContent, error) {
	pc, ok := f.paidContent[articleID]
	if !ok {
		return nil, nil
	}
	if upd.Price != nil {
		pc.Price = *upd.Price
	}
	if upd.Currency != nil {
		pc.Currency = domain.Currency(*upd.Currency)
	}
	if upd.Description != nil {
		pc.Description = *upd.Description
	}
	if upd.PreviewLength != nil {
		pc.PreviewLength = *upd.PreviewLength
	}
	return pc, nil
}

func (f *fakeMonetizationRepo) DeactivatePaidContent(ctx context.Context, articleID string) (bool, error) {
	pc, ok := f.paidContent[articleID]
	if !ok || !pc.IsActive {
		return false, nil
	}
	pc.IsActive = false
	return true, nil
}

func (f *fakeMonetizationRepo) RecordPaidContentSale(ctx context.Context, articleID string, amount decimal.Decimal) error {
	pc, ok := f.paidContent[articleID]
	if !ok {
		return nil
	}
	pc.TotalPurchases++
	pc.TotalRevenue = pc.TotalRevenue.Add(amount)
	return nil
}

func (f *fakeMonetizationRepo) PaidContentRevenueForArticles(ctx context.Context, articleIDs []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range articleIDs {
		if pc, ok := f.paidContent[id]; ok {
			total = total.Add(pc.TotalRevenue)
		}
	}
	return total, nil
}

func (f *fakeMonetizationRepo) InsertPurchase(ctx context.Context, purchase *domain.Purchase) error {
	f.purchases = append(f.purchases, purchase)
	return nil
}

func (f *fakeMonetizationRepo) ListPurchasesByBuyer(ctx context.Context, wallet string, limit, offset int) ([]*domain.Purchase, error) {
	var out []*domain.Purchase
	for i := len(f.purchases) - 1; i >= 0; i-- {
		if f.purchases[i].BuyerWallet == wallet {
			out = append(out, f.purchases[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeMonetizationRepo) ListPurchasesByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Purchase, error) {
	var out []*domain.Purchase
	for i := len(f.purchases) - 1; i >= 0; i-- {
		if f.purchases[i].ArticleID == articleID {
			out = append(out, f.purchases[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeMonetizationRepo) CountPurchasesByBuyer(ctx context.Context, wallet string) (int64, error) {
	var n int64
	for _, p := range f.purchases {
		if p.BuyerWallet == wallet {
			n++
		}
	}
	return n, nil
}

func (f *fakeMonetizationRepo) InsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	f.subscriptions = append(f.subscriptions, sub)
	return nil
}

func (f *fakeMonetizationRepo) GetActiveSubscription(ctx context.Context, subscriberWallet, authorWallet string) (*domain.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.IsActive && s.SubscriberWallet == subscriberWallet && s.AuthorWallet == authorWallet {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeMonetizationRepo) ListActiveBySubscriber(ctx context.Context, wallet string) ([]*domain.Subscription, error) {
	var out []*domain.Subscription
	for _, s := range f.subscriptions {
		if s.IsActive && s.SubscriberWallet == wallet {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeMonetizationRepo) ListActiveByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Subscription, error) {
	var out []*domain.Subscription
	for _, s := range f.subscriptions {
		if s.IsActive && s.AuthorWallet == wallet {
			out = append(out, s)
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeMonetizationRepo) CancelSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	for _, s := range f.subscriptions {
		if s.ID == id && s.IsActive {
			s.IsActive = false
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeMonetizationRepo) ActiveSubscriptionRollup(ctx context.Context, authorWallet string) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var count int64
	for _, s := range f.subscriptions {
		if s.IsActive && s.AuthorWallet == authorWallet {
			count++
			total = total.Add(s.TotalPaid)
		}
	}
	return total, count, nil
}

type fakeNFTRepo struct {
	nfts        []*domain.NFT
	sales       []*domain.NFTSale
	collections []*domain.NFTCollection
}

func (f *fakeNFTRepo) Insert(ctx context.Context, nft *domain.NFT) error {
	f.nfts = append(f.nfts, nft)
	return nil
}

func (f *fakeNFTRepo) GetByID(ctx context.Context, id string) (*domain.NFT, error) {
	for _, n := range f.nfts {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNFTRepo) GetByArticle(ctx context.Context, articleID string) (*domain.NFT, error) {
	for _, n := range f.nfts {
		if n.ArticleID == articleID {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNFTRepo) Update(ctx context.Context, id string, upd *domain.NFTUpdate) (*domain.NFT, error) {
	for _, n := range f.nfts {
		if n.ID == id {
			if upd.Price != nil {
				n.Price = *upd.Price
			}
			if upd.Currency != nil {
				n.Currency = domain.Currency(*upd.Currency)
			}
			if upd.IsListed != nil {
				n.IsListed = *upd.IsListed
			}
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNFTRepo) MarkMinted(ctx context.Context, id, txHash string) (bool, error) {
	for _, n := range f.nfts {
		if n.ID == id && !n.IsMinted {
			n.IsMinted = true
			n.MintTxHash = txHash
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNFTRepo) SetListing(ctx context.Context, id string, listed bool, price *decimal.Decimal, currency *domain.Currency) (bool, error) {
	for _, n := range f.nfts {
		if n.ID == id {
			n.IsListed = listed
			if price != nil {
				n.Price = *price
			}
			if currency != nil {
				n.Currency = *currency
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNFTRepo) ListListed(ctx context.Context, limit, offset int, minPrice, maxPrice *decimal.Decimal) ([]*domain.NFT, error) {
	var out []*domain.NFT
	for _, n := range f.nfts {
		if !n.IsListed {
			continue
		}
		if minPrice != nil && n.Price.LessThan(*minPrice) {
			continue
		}
		if maxPrice != nil && n.Price.GreaterThan(*maxPrice) {
			continue
		}
		out = append(out, n)
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeNFTRepo) ListByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFT, error) {
	var out []*domain.NFT
	for _, n := range f.nfts {
		if n.CreatorWallet == wallet {
			out = append(out, n)
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeNFTRepo) InsertSale(ctx context.Context, sale *domain.NFTSale) error {
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeNFTRepo) RecordSaleStats(ctx context.Context, nftID string, price decimal.Decimal) error {
	for _, n := range f.nfts {
		if n.ID == nftID {
			n.TotalSales++
			n.TotalVolume = n.TotalVolume.Add(price)
		}
	}
	return nil
}

func (f *fakeNFTRepo) ListSalesByNFT(ctx context.Context, nftID string, limit, offset int) ([]*domain.NFTSale, error) {
	var out []*domain.NFTSale
	for i := len(f.sales) - 1; i >= 0; i-- {
		if f.sales[i].NFTID == nftID {
			out = append(out, f.sales[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeNFTRepo) ListSalesByWallet(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTSale, error) {
	var out []*domain.NFTSale
	for i := len(f.sales) - 1; i >= 0; i-- {
		if f.sales[i].SellerWallet == wallet || f.sales[i].BuyerWallet == wallet {
			out = append(out, f.sales[i])
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeNFTRepo) InsertCollection(ctx context.Context, collection *domain.NFTCollection) error {
	f.collections = append(f.collections, collection)
	return nil
}

func (f *fakeNFTRepo) GetCollection(ctx context.Context, id string) (*domain.NFTCollection, error) {
	for _, c := range f.collections {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeNFTRepo) ListCollections(ctx context.Context, limit, offset int) ([]*domain.NFTCollection, error) {
	return slicePage(f.collections, limit, offset), nil
}

func (f *fakeNFTRepo) ListCollectionsByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTCollection, error) {
	var out []*domain.NFTCollection
	for _, c := range f.collections {
		if c.CreatorWallet == wallet {
			out = append(out, c)
		}
	}
	return slicePage(out, limit, offset), nil
}

func (f *fakeNFTRepo) matches(n *domain.NFT, creatorWallet string) bool {
	return creatorWallet == "" || n.CreatorWallet == creatorWallet
}

func (f *fakeNFTRepo) CountNFTs(ctx context.Context, creatorWallet string) (int64, error) {
	var n int64
	for _, nft := range f.nfts {
		if f.matches(nft, creatorWallet) {
			n++
		}
	}
	return n, nil
}

func (f *fakeNFTRepo) SumVolume(ctx context.Context, creatorWallet string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, nft := range f.nfts {
		if f.matches(nft, creatorWallet) {
			total = total.Add(nft.TotalVolume)
		}
	}
	return total, nil
}

func (f *fakeNFTRepo) CountSales(ctx context.Context, creatorWallet string) (int64, error) {
	var n int64
	for _, nft := range f.nfts {
		if f.matches(nft, creatorWallet) {
			n += nft.TotalSales
		}
	}
	return n, nil
}

func (f *fakeNFTRepo) FloorPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, bool, error) {
	floor := decimal.Zero
	found := false
	for _, nft := range f.nfts {
		if !nft.IsListed || !f.matches(nft, creatorWallet) {
			continue
		}
		if !found || nft.Price.LessThan(floor) {
			floor = nft.Price
			found = true
		}
	}
	return floor, found, nil
}

func (f *fakeNFTRepo) CountDistinctBuyers(ctx context.Context, creatorWallet string) (int64, error) {
	byID := make(map[string]*domain.NFT)
	for _, nft := range f.nfts {
		byID[nft.ID] = nft
	}
	buyers := make(map[string]struct{})
	for _, s := range f.sales {
		nft, ok := byID[s.NFTID]
		if !ok || !f.matches(nft, creatorWallet) {
			continue
		}
		buyers[s.BuyerWallet] = struct{}{}
	}
	return int64(len(buyers)), nil
}

func (f *fakeNFTRepo) AverageListedPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, error) {
	total := decimal.Zero
	var n int64
	for _, nft := range f.nfts {
		if nft.IsListed && f.matches(nft, creatorWallet) {
			total = total.Add(nft.Price)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return total.Div(decimal.NewFromInt(n)), nil
}

func slicePage[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
