package model

type User struct {
	Id                uint64 `gorm:"primaryKey"`
	Email             string
	Username          string
	CustodialWalletId uint64
	GoogleIdentityId  string
}

func (User) TableName() string {
	return "flipcard_user"
}
