package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_price_history"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/query"
)

// PriceHistoryRepo implements PriceHistoryRepository for Spanner.
type PriceHistoryRepo struct {
	client *spanner.Client
	model  *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(client *spanner.Client) contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{
		client: client,
		model:  m_price_history.NewModel(),
	}
}

// InsertMut creates a mutation recording one price change.
func (r *PriceHistoryRepo) InsertMut(change *contracts.PriceChange) (*spanner.Mutation, error) {
	newNum, newDenom, err := moneyColumns(change.NewPrice)
	if err != nil {
		return nil, fmt.Errorf("new price: %w", err)
	}

	data := &m_price_history.Data{
		HistoryID:           change.HistoryID,
		ProductID:           change.ProductID,
		NewPriceNumerator:   newNum,
		NewPriceDenominator: newDenom,
		ChangedAt:           change.ChangedAt,
	}

	if change.VariantID != "" {
		data.VariantID = spanner.NullString{StringVal: change.VariantID, Valid: true}
	}
	if change.OldPrice != nil {
		oldNum, oldDenom, err := moneyColumns(change.OldPrice)
		if err != nil {
			return nil, fmt.Errorf("old price: %w", err)
		}
		data.OldPriceNumerator = spanner.NullInt64{Int64: oldNum, Valid: true}
		data.OldPriceDenominator = spanner.NullInt64{Int64: oldDenom, Valid: true}
	}
	if change.CampaignID != "" {
		data.CampaignID = spanner.NullString{StringVal: change.CampaignID, Valid: true}
	}
	if change.Reason != "" {
		data.ChangedReason = spanner.NullString{StringVal: change.Reason, Valid: true}
	}

	return r.model.InsertMut(data), nil
}

// ListByProduct retrieves the price changes of a product and its variants,
// most recent first.
func (r *PriceHistoryRepo) ListByProduct(ctx context.Context, productID string, limit int64) ([]contracts.PriceChange, error) {
	stmt := query.From(m_price_history.TableName).
		Select(m_price_history.AllColumns()...).
		Where(query.Eq(m_price_history.ProductID, productID)).
		OrderBy(m_price_history.ChangedAt, query.Desc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	changes := make([]contracts.PriceChange, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		change, err := r.dataToChange(&data)
		if err != nil {
			return nil, err
		}
		changes = append(changes, *change)
	}
	return changes, nil
}

func (r *PriceHistoryRepo) dataToChange(data *m_price_history.Data) (*contracts.PriceChange, error) {
	newPrice, err := domain.NewMoney(data.NewPriceNumerator, data.NewPriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid new price: %w", err)
	}

	change := &contracts.PriceChange{
		HistoryID: data.HistoryID,
		ProductID: data.ProductID,
		NewPrice:  newPrice,
		ChangedAt: data.ChangedAt,
	}

	if data.VariantID.Valid {
		change.VariantID = data.VariantID.StringVal
	}
	if data.OldPriceNumerator.Valid && data.OldPriceDenominator.Valid {
		oldPrice, err := domain.NewMoney(data.OldPriceNumerator.Int64, data.OldPriceDenominator.Int64)
		if err != nil {
			return nil, fmt.Errorf("invalid old price: %w", err)
		}
		change.OldPrice = oldPrice
	}
	if data.CampaignID.Valid {
		change.CampaignID = data.CampaignID.StringVal
	}
	if data.ChangedReason.Valid {
		change.Reason = data.ChangedReason.StringVal
	}

	return change, nil
}
