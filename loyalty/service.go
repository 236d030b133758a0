/*
service.go - Catalog-validated redemption

PURPOSE:
  RewardService translates a user intent ("redeem reward X") into a
  validated Ledger call: resolve the reward, then delegate the atomic
  deduction. It holds no state of its own and is safe to call
  concurrently.

FAILURE MODES:
  - ErrRewardNotFound: the reward ID does not resolve in the catalog;
    the ledger is never touched.
  - ErrInsufficientBalance: propagated unchanged from the ledger.
*/
package loyalty

import "context"

// RewardService validates redemption requests against the catalog and
// delegates the mutation to the Ledger.
type RewardService struct {
	catalog *Catalog
	ledger  *Ledger
}

func NewRewardService(catalog *Catalog, ledger *Ledger) *RewardService {
	return &RewardService{catalog: catalog, ledger: ledger}
}

// Redeem resolves rewardID and atomically deducts its cost from the
// user's balance at the reward's business.
func (s *RewardService) Redeem(ctx context.Context, userID UserID, rewardID RewardID) (Transaction, error) {
	reward, err := s.catalog.GetReward(rewardID)
	if err != nil {
		return Transaction{}, err
	}

	return s.ledger.Redeem(ctx, userID, reward.BusinessID, reward.PointsRequired, reward.ID, "Redeemed: "+reward.Title)
}
