package registration

import (
	"context"

	"github.com/kollektive-hackathon/flipcard-backend/internal/keymgmt"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"gorm.io/gorm"
)

type registrationService struct {
	db     *gorm.DB
	bridge *accountContractBridge
}

// register provisions a KMS signing key, records the custodial wallet and
// player row, then asks the chain worker to create and fund the custodial
// account. The wallet address arrives later on the account-created event.
func (s *registrationService) register(username string, email string, googleIdentityId string) (uint64, *reject.ProblemWithTrace) {
	ctx := context.Background()
	defaultKeyIndex := 0
	defaultKeyWeight := -1
	accountKey, privateKey, err := keymgmt.GenerateAsymetricKey(ctx, defaultKeyIndex, defaultKeyWeight)
	if err != nil {
		return 0, &reject.ProblemWithTrace{Problem: reject.UnexpectedProblem(err), Cause: err}
	}

	publicKey := accountKey.PublicKey.String()

	var userId uint64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		wallet := model.CustodialWallet{
			ResourceId: privateKey.Value,
			PublicKey:  publicKey,
		}
		result := tx.Create(&wallet)
		if result.Error != nil {
			return result.Error
		}

		user := model.User{
			Email:             email,
			Username:          username,
			CustodialWalletId: wallet.Id,
			GoogleIdentityId:  googleIdentityId,
		}
		result = tx.Create(&user)
		if result.Error != nil {
			return result.Error
		}

		userId = user.Id
		return nil
	})

	if err != nil {
		return 0, &reject.ProblemWithTrace{Problem: reject.UnexpectedProblem(err), Cause: err}
	}

	s.bridge.createCustodialAccount(publicKey)

	return userId, nil
}
