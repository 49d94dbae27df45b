package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/campaign-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/campaign-pricing-service/internal/models/m_campaign"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/campaign-pricing-service/internal/pkg/query"
)

// CampaignRepo implements CampaignRepository for Spanner.
type CampaignRepo struct {
	client *spanner.Client
	model  *m_campaign.Model
	clock  clock.Clock
}

// NewCampaignRepo creates a new CampaignRepo.
func NewCampaignRepo(client *spanner.Client, clk clock.Clock) contracts.CampaignRepository {
	return &CampaignRepo{
		client: client,
		model:  m_campaign.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new campaign.
func (r *CampaignRepo) InsertMut(campaign *domain.Campaign) (*spanner.Mutation, error) {
	data, err := r.domainToData(campaign)
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(data), nil
}

// UpdateMut creates a mutation for updating a campaign (only dirty fields).
func (r *CampaignRepo) UpdateMut(campaign *domain.Campaign) (*spanner.Mutation, error) {
	changes := campaign.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.CampaignFieldName) {
		updates[m_campaign.Name] = campaign.Name()
	}
	if changes.Dirty(domain.CampaignFieldTargets) {
		updates[m_campaign.CampaignType] = string(campaign.Type())
		updates[m_campaign.TargetIDs] = campaign.TargetIDs()
	}
	if changes.Dirty(domain.CampaignFieldDiscount) {
		num, denom, err := moneyColumns(campaign.Amount())
		if err != nil {
			return nil, fmt.Errorf("campaign amount: %w", err)
		}
		updates[m_campaign.DiscountKind] = string(campaign.Kind())
		updates[m_campaign.DiscountPercent] = campaign.Percent()
		updates[m_campaign.DiscountAmountNumerator] = num
		updates[m_campaign.DiscountAmountDenominator] = denom
	}
	if changes.Dirty(domain.CampaignFieldSchedule) {
		updates[m_campaign.StartDate] = campaign.StartDate()
		updates[m_campaign.EndDate] = campaign.EndDate()
	}
	if changes.Dirty(domain.CampaignFieldIsActive) {
		updates[m_campaign.IsActive] = campaign.IsActive()
	}

	if len(updates) == 0 {
		return nil, nil
	}

	updates[m_campaign.Version] = campaign.Version() + 1

	return r.model.UpdateMut(campaign.ID(), updates), nil
}

// DeleteMut creates a mutation for deleting a campaign.
func (r *CampaignRepo) DeleteMut(campaignID string) *spanner.Mutation {
	return r.model.DeleteMut(campaignID)
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepo) GetByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	row, err := r.client.Single().ReadRow(ctx, m_campaign.TableName, spanner.Key{campaignID}, m_campaign.AllColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to read campaign: %w", err)
	}

	var data m_campaign.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse campaign: %w", err)
	}

	return r.dataToDomain(&data)
}

// ListUnexpired retrieves every campaign whose end date is still in the
// future, regardless of the is_active flag.
func (r *CampaignRepo) ListUnexpired(ctx context.Context, now time.Time) ([]*domain.Campaign, error) {
	stmt := query.From(m_campaign.TableName).
		Select(m_campaign.AllColumns()...).
		Where(query.Gt(m_campaign.EndDate, now)).
		Build()
	return r.queryCampaigns(ctx, stmt)
}

// ListAll retrieves every campaign.
func (r *CampaignRepo) ListAll(ctx context.Context) ([]*domain.Campaign, error) {
	stmt := query.From(m_campaign.TableName).
		Select(m_campaign.AllColumns()...).
		Build()
	return r.queryCampaigns(ctx, stmt)
}

// List retrieves a page of campaigns ordered by creation time descending.
func (r *CampaignRepo) List(ctx context.Context, limit, offset int64) ([]*domain.Campaign, error) {
	stmt := query.From(m_campaign.TableName).
		Select(m_campaign.AllColumns()...).
		OrderBy(m_campaign.CreatedAt, query.Desc).
		Limit(limit).
		Offset(offset).
		Build()
	return r.queryCampaigns(ctx, stmt)
}

// Count returns the total number of campaigns.
func (r *CampaignRepo) Count(ctx context.Context) (int64, error) {
	stmt := query.From(m_campaign.TableName).Count().Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	var count int64
	if err := row.Column(0, &count); err != nil {
		return 0, fmt.Errorf("failed to parse campaign count: %w", err)
	}
	return count, nil
}

func (r *CampaignRepo) queryCampaigns(ctx context.Context, stmt spanner.Statement) ([]*domain.Campaign, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	campaigns := make([]*domain.Campaign, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query campaigns: %w", err)
		}

		var data m_campaign.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse campaign: %w", err)
		}
		campaign, err := r.dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

// domainToData converts a domain Campaign to database Data.
func (r *CampaignRepo) domainToData(campaign *domain.Campaign) (*m_campaign.Data, error) {
	num, denom, err := moneyColumns(campaign.Amount())
	if err != nil {
		return nil, fmt.Errorf("campaign amount: %w", err)
	}

	return &m_campaign.Data{
		CampaignID:                campaign.ID(),
		Name:                      campaign.Name(),
		CampaignType:              string(campaign.Type()),
		TargetIDs:                 campaign.TargetIDs(),
		DiscountKind:              string(campaign.Kind()),
		DiscountPercent:           campaign.Percent(),
		DiscountAmountNumerator:   num,
		DiscountAmountDenominator: denom,
		StartDate:                 campaign.StartDate(),
		EndDate:                   campaign.EndDate(),
		IsActive:                  campaign.IsActive(),
		Version:                   campaign.Version(),
		CreatedAt:                 campaign.CreatedAt(),
		UpdatedAt:                 campaign.UpdatedAt(),
	}, nil
}

// dataToDomain converts database Data to a domain Campaign.
func (r *CampaignRepo) dataToDomain(data *m_campaign.Data) (*domain.Campaign, error) {
	denom := data.DiscountAmountDenominator
	if denom == 0 {
		denom = 1
	}
	amount, err := domain.NewMoney(data.DiscountAmountNumerator, denom)
	if err != nil {
		return nil, fmt.Errorf("invalid campaign amount: %w", err)
	}

	return domain.ReconstructCampaign(
		data.CampaignID,
		data.Name,
		domain.CampaignType(data.CampaignType),
		data.TargetIDs,
		domain.DiscountKind(data.DiscountKind),
		data.DiscountPercent,
		amount,
		data.StartDate,
		data.EndDate,
		data.IsActive,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}
