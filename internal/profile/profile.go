package profile

type Profile struct {
	Id                     uint64 `json:"id"`
	Email                  string `json:"email"`
	Username               string `json:"username"`
	CustodialWalletAddress string `json:"custodialWalletAddress"`
}
