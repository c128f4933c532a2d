package models

import (
	"time"

	"gorm.io/datatypes"
)

// RIAProfile is one Registered Investment Advisor firm in the searchable
// directory, keyed by the SEC CRD number.
type RIAProfile struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CRDNumber int64  `gorm:"column:crd_number;type:bigint;not null;uniqueIndex" json:"crd_number"`
	FirmName  string `gorm:"column:firm_name;type:varchar(255);not null;index" json:"firm_name"`
	City      string `gorm:"column:city;type:varchar(128)" json:"city"`
	State     string `gorm:"column:state;type:varchar(8);index" json:"state"`
	// AUM is assets under management in whole dollars.
	AUM      int64 `gorm:"column:aum;type:bigint;not null;default:0" json:"aum"`
	RepCount int   `gorm:"column:rep_count;type:int;not null;default:0" json:"rep_count"`
	// Services holds the advisory service tags reported on Form ADV.
	Services  datatypes.JSON `gorm:"column:services;type:jsonb;default:'[]'" json:"services"`
	Website   string         `gorm:"column:website;type:varchar(255)" json:"website"`
	Phone     string         `gorm:"column:phone;type:varchar(64)" json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (RIAProfile) TableName() string {
	return "ria_profile"
}
