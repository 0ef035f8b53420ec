package repository

import (
	"context"
	"testing"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func closeDocAt(date string, close float64) bson.D {
	return bson.D{{Key: "trade_date", Value: date}, {Key: "close", Value: close}}
}

func TestMongoIndexReader(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("raw", func(mt *mtest.T) {
		r := NewMongoIndexReader(mt.DB, "", "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.index_prices", mtest.FirstBatch,
			closeDocAt("20251103", 3900),
			closeDocAt("20251104", 3950),
		))

		s, err := r.LoadRaw(context.Background(), "000300.SH", "20251101", "20251130")
		require.NoError(t, err)
		assert.Equal(t, "000300.SH", s.Code)
		require.Len(t, s.Points, 2)
		assert.Equal(t, 3950.0, s.Points[1].Close)

		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "000300.SH", ev.Command.Lookup("filter", "ts_code").StringValue())
	})

	mt.Run("normalized falls back to stock closes", func(mt *mtest.T) {
		r := NewMongoIndexReader(mt.DB, "", "")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "finance.index_prices", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "finance.volume_price", mtest.FirstBatch,
				closeDocAt("20251103", 20),
				closeDocAt("20251104", 25),
			),
		)

		s, err := r.LoadNormalized(context.Background(), "300722.SZ", "20251101", "20251130")
		require.NoError(t, err)
		assert.Equal(t, "300722.SZ_norm", s.Code)
		require.Len(t, s.Points, 2)
		assert.Equal(t, 1.0, s.Points[0].Close)
		assert.Equal(t, 1.25, s.Points[1].Close)

		_ = mt.GetStartedEvent()
		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "volume_price", ev.Command.Lookup("find").StringValue())
		assert.Equal(t, "300722", ev.Command.Lookup("filter", "symbol").StringValue())
	})

	mt.Run("normalized with zero base is empty", func(mt *mtest.T) {
		r := NewMongoIndexReader(mt.DB, "", "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.index_prices", mtest.FirstBatch,
			closeDocAt("20251103", 0),
			closeDocAt("20251104", 10),
		))

		s, err := r.LoadNormalized(context.Background(), "000300.SH", "20251101", "20251130")
		require.NoError(t, err)
		assert.Empty(t, s.Points)
	})

	mt.Run("bad range", func(mt *mtest.T) {
		r := NewMongoIndexReader(mt.DB, "", "")
		_, err := r.LoadRaw(context.Background(), "000300.SH", "20251130", "20251101")
		assert.ErrorIs(t, err, domrepo.ErrQuery)
	})
}

func TestBareSymbol(t *testing.T) {
	assert.Equal(t, "300722", bareSymbol("300722.SZ"))
	assert.Equal(t, "300722", bareSymbol("300722"))
}

func TestMongoScoreReader(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exact date", func(mt *mtest.T) {
		r := NewMongoScoreReader(mt.DB, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch,
			bson.D{{Key: "score_date", Value: "20251103"}},
		))

		got, err := r.ResolveNearestScoreDate(context.Background(), "20251103")
		require.NoError(t, err)
		assert.Equal(t, "20251103", got)
	})

	mt.Run("latest earlier date", func(mt *mtest.T) {
		r := NewMongoScoreReader(mt.DB, "")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch,
				bson.D{{Key: "score_date", Value: "20251031"}},
			),
		)

		got, err := r.ResolveNearestScoreDate(context.Background(), "20251102")
		require.NoError(t, err)
		assert.Equal(t, "20251031", got)
	})

	mt.Run("no scores at all", func(mt *mtest.T) {
		r := NewMongoScoreReader(mt.DB, "")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch),
		)

		got, err := r.ResolveNearestScoreDate(context.Background(), "20251102")
		require.NoError(t, err)
		assert.Equal(t, "20251102", got)
	})

	mt.Run("select top composite", func(mt *mtest.T) {
		r := NewMongoScoreReader(mt.DB, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.stock_scores", mtest.FirstBatch,
			bson.D{{Key: "symbol", Value: "300722"}},
			bson.D{{Key: "symbol", Value: "600000"}},
		))

		sel, err := r.SelectTop(context.Background(), "20251103", "balanced", 2, false)
		require.NoError(t, err)
		assert.Equal(t, "20251103", sel.ScoreDate)
		assert.Equal(t, []string{"300722", "600000"}, sel.Symbols)

		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, int64(-1), ev.Command.Lookup("sort", "composite_score.balanced").AsInt64())
		assert.True(t, ev.Command.Lookup("filter", "composite_score.balanced", "$exists").Boolean())
		assert.Equal(t, int64(2), ev.Command.Lookup("limit").AsInt64())
	})
}

func TestScoreField(t *testing.T) {
	assert.Equal(t, "composite_score.growth_oriented", ScoreField("growth_oriented"))
	assert.Equal(t, "momentum_score", ScoreField("momentum"))
}

func TestMongoUserReader(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("user found", func(mt *mtest.T) {
		r := NewMongoUserReader(mt.DB, "", "")
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "username", Value: "alice"}, {Key: "mail", Value: "a@example.com"}},
		))

		u, err := r.GetUserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, oid.Hex(), u.ID())
		assert.Equal(t, "a@example.com", u.Email())
		assert.Equal(t, "alice", u.Username())
	})

	mt.Run("user missing", func(mt *mtest.T) {
		r := NewMongoUserReader(mt.DB, "", "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.users", mtest.FirstBatch))

		u, err := r.GetUserByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	mt.Run("watchlist keeps non-blank strings", func(mt *mtest.T) {
		r := NewMongoUserReader(mt.DB, "", "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.user_watchlists", mtest.FirstBatch,
			bson.D{{Key: "user_id", Value: "u1"}, {Key: "symbols", Value: bson.A{"300722", " ", 42, "600000"}}},
		))

		got, err := r.GetWatchlistSymbols(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"300722", "600000"}, got)
	})

	mt.Run("no watchlist", func(mt *mtest.T) {
		r := NewMongoUserReader(mt.DB, "", "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.user_watchlists", mtest.FirstBatch))

		got, err := r.GetWatchlistSymbols(context.Background(), "u1")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestMongoFinancialReader(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("latest periods", func(mt *mtest.T) {
		r := NewMongoFinancialReader(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.financial_income", mtest.FirstBatch,
			bson.D{{Key: "ts_code", Value: "300722.SZ"}, {Key: "end_date", Value: "20250930"}},
			bson.D{{Key: "ts_code", Value: "300722.SZ"}, {Key: "end_date", Value: "20250630"}},
		))

		docs, err := r.FetchDocs(context.Background(), models.FinIncome, bson.M{"ts_code": "300722.SZ"}, 2, "")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "20250930", docs[0]["end_date"])

		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "financial_income", ev.Command.Lookup("find").StringValue())
		assert.Equal(t, int64(-1), ev.Command.Lookup("sort", "end_date").AsInt64())
		assert.Equal(t, int64(2), ev.Command.Lookup("limit").AsInt64())
	})

	mt.Run("collection override", func(mt *mtest.T) {
		r := NewMongoFinancialReader(mt.DB, map[models.FinancialKind]string{models.FinCashflow: "cf"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "finance.cf", mtest.FirstBatch))

		docs, err := r.FetchDocs(context.Background(), models.FinCashflow, nil, 0, "")
		require.NoError(t, err)
		assert.Empty(t, docs)
		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "cf", ev.Command.Lookup("find").StringValue())
	})

	mt.Run("unknown kind", func(mt *mtest.T) {
		r := NewMongoFinancialReader(mt.DB, nil)
		_, err := r.FetchDocs(context.Background(), models.FinancialKind("dividend"), nil, 0, "")
		assert.ErrorIs(t, err, domrepo.ErrQuery)
	})
}

func TestMongoCalendar(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("distinct dates sorted", func(mt *mtest.T) {
		c := NewMongoCalendar(mt.DB, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "values", Value: bson.A{"20251104", "20251103", int32(20251105)}},
		))

		days, err := c.TradingDays(context.Background(), "20251101", "20251130")
		require.NoError(t, err)
		assert.Equal(t, []string{"20251103", "20251104"}, days)

		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "distinct", ev.CommandName)
	})

	mt.Run("falls back to a scan when distinct fails", func(mt *mtest.T) {
		c := NewMongoCalendar(mt.DB, "")
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    17217,
				Name:    "Location17217",
				Message: "distinct too big, 16mb cap",
			}),
			mtest.CreateCursorResponse(0, "finance.volume_price", mtest.FirstBatch,
				bson.D{{Key: "trade_date", Value: "20251104"}},
				bson.D{{Key: "trade_date", Value: "20251103"}},
				bson.D{{Key: "trade_date", Value: "20251104"}},
				bson.D{{Key: "trade_date", Value: int32(20251105)}},
			),
		)

		days, err := c.TradingDays(context.Background(), "20251101", "20251130")
		require.NoError(t, err)
		assert.Equal(t, []string{"20251103", "20251104"}, days)

		assert.Equal(t, "distinct", mt.GetStartedEvent().CommandName)
		ev := mt.GetStartedEvent()
		require.NotNil(t, ev)
		assert.Equal(t, "find", ev.CommandName)
	})
}
