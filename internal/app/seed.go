package app

import (
	"resumehub/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seedPlans создает тарифные планы, если их еще нет.
// Существующие планы не перезаписываются.
func seedPlans(db *gorm.DB) error {
	plans := []models.SubscriptionPlan{
		{
			Name:     "Free",
			Tier:     models.TierFree,
			Price:    0,
			Currency: "USD",
			Interval: "monthly",
			Features: datatypes.JSON(`{"ai_chat": true, "ats_scoring": true, "teams": false, "white_label": false}`),
			Limits:   datatypes.JSON(`{"resumes": 3, "team_members": 3, "api_rpm": 10, "api_monthly": 1000}`),
			IsActive: true,
		},
		{
			Name:     "Pro",
			Tier:     models.TierPro,
			Price:    19.99,
			Currency: "USD",
			Interval: "monthly",
			Features: datatypes.JSON(`{"ai_chat": true, "ats_scoring": true, "teams": true, "white_label": false}`),
			Limits:   datatypes.JSON(`{"resumes": 50, "team_members": 25, "api_rpm": 60, "api_monthly": 50000}`),
			IsActive: true,
		},
		{
			Name:     "Enterprise",
			Tier:     models.TierEnterprise,
			Price:    99.99,
			Currency: "USD",
			Interval: "monthly",
			Features: datatypes.JSON(`{"ai_chat": true, "ats_scoring": true, "teams": true, "white_label": true}`),
			Limits:   datatypes.JSON(`{"resumes": -1, "team_members": -1, "api_rpm": 600, "api_monthly": 1000000}`),
			IsActive: true,
		},
	}

	for _, plan := range plans {
		var count int64
		if err := db.Model(&models.SubscriptionPlan{}).
			Where("tier = ?", plan.Tier).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}

	return nil
}
