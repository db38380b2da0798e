package model

import "time"

// Profile holds the free-form trader profile shown on the dashboard.
type Profile struct {
	Bio              string   `json:"bio"`
	Phone            string   `json:"phone"`
	RiskTolerance    string   `json:"riskTolerance"`
	TradingStyle     string   `json:"tradingStyle"`
	PreferredSectors string   `json:"preferredSectors"`
	InvestmentGoals  string   `json:"investmentGoals"`
	Achievements     []string `json:"achievements"`
}

// AccountInfo is the caller-facing account view, never carries the password hash.
type AccountInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	Profile   Profile   `json:"profile"`
}

// ProfileUpdate carries partial profile edits, empty fields stay untouched.
type ProfileUpdate struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Profile   *Profile `json:"profile"`
}
