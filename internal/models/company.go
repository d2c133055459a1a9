package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionOnboarding   SubscriptionStatus = "ONBOARDING"
	SubscriptionActive       SubscriptionStatus = "ACTIVE"
	SubscriptionUpgrading    SubscriptionStatus = "UPGRADING"
	SubscriptionDowngrading  SubscriptionStatus = "DOWNGRADING"
	SubscriptionRenewal      SubscriptionStatus = "RENEWAL"
	SubscriptionCancellation SubscriptionStatus = "CANCELLATION"
	SubscriptionChurned      SubscriptionStatus = "CHURNED"
	SubscriptionCancelled    SubscriptionStatus = "CANCELLED"
)

var SubscriptionStatuses = []string{
	string(SubscriptionOnboarding), string(SubscriptionActive), string(SubscriptionUpgrading),
	string(SubscriptionDowngrading), string(SubscriptionRenewal), string(SubscriptionCancellation),
	string(SubscriptionChurned), string(SubscriptionCancelled),
}

type Company struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	URL                string             `json:"url,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	Industry           string             `json:"industry,omitempty"`
	Employees          []string           `json:"employees"`
	Projects           []string           `json:"projects"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}
