package profile

import (
	"context"
	"strings"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"github.com/onflow/cadence"
	"github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/access/grpc"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type ProfileService struct {
	Db *gorm.DB
}

func (s *ProfileService) FindById(id uint64) (*Profile, *reject.ProblemWithTrace) {
	var profile Profile
	result := s.Db.
		Table("flipcard_user").
		Joins("INNER JOIN custodial_wallet ON flipcard_user.custodial_wallet_id = custodial_wallet.id").
		Where("flipcard_user.id = ?", id).
		Select(`
			flipcard_user.id,
			flipcard_user.email,
			flipcard_user.username,
			custodial_wallet.address AS custodial_wallet_address
		`).
		Scan(&profile)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &profile, nil
}

func (s *ProfileService) FindByCustodialAddress(address string) (*Profile, *reject.ProblemWithTrace) {
	var profile Profile
	result := s.Db.
		Table("flipcard_user").
		Joins("INNER JOIN custodial_wallet ON flipcard_user.custodial_wallet_id = custodial_wallet.id").
		Where("custodial_wallet.address = ?", address).
		Select(`
			flipcard_user.id,
			flipcard_user.email,
			flipcard_user.username,
			custodial_wallet.address AS custodial_wallet_address
		`).
		Scan(&profile)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &profile, nil
}

// Balance runs the token balance script against the latest block for the
// player's custodial wallet.
func (s *ProfileService) Balance(id uint64) (string, *reject.ProblemWithTrace) {
	profile, problem := s.FindById(id)
	if problem != nil {
		return "", problem
	}

	balance, err := checkBalance(profile.CustodialWalletAddress)
	if err != nil {
		return "", &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}

	return balance, nil
}

func checkBalance(address string) (string, error) {
	txCode := `
		import FungibleToken from 0xFUNGIBLE_TOKEN_ADDRESS
		import FlowToken from 0xFLOW_TOKEN_ADDRESS

		pub fun main(account: Address): UFix64 {

		let vaultRef = getAccount(account)
		.getCapability(/public/flowTokenBalance)
		.borrow<&FlowToken.Vault{FungibleToken.Balance}>()
		?? panic("Could not borrow Balance reference to the Vault")

		return vaultRef.balance
		}
		`

	addressTemplates := map[string]string{
		"0xFLOW_TOKEN_ADDRESS":     viper.Get("FLOW_TOKEN_ADDRESS").(string),
		"0xFUNGIBLE_TOKEN_ADDRESS": viper.Get("FUNGIBLE_TOKEN_ADDRESS").(string),
	}

	for k, v := range addressTemplates {
		txCode = strings.ReplaceAll(txCode, k, v)
	}

	c, err := grpc.NewClient(grpc.TestnetHost)
	if err != nil {
		return "", err
	}

	flowAddress := flow.HexToAddress(address)
	cadenceAddress := cadence.BytesToAddress(flowAddress.Bytes())
	args := []cadence.Value{cadence.Address(cadenceAddress)}

	balance, err := c.ExecuteScriptAtLatestBlock(context.Background(), []byte(txCode), args)
	if err != nil {
		return "", err
	}

	return balance.String(), nil
}
