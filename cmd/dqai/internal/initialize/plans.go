package initialize

import (
	"context"
	"fmt"
)

// DefaultPlanName is the tier assigned to the first business
const DefaultPlanName = "Free"

// DefaultPlans are the subscription tiers every database carries
func DefaultPlans() []Plan {
	return []Plan{
		{
			Name:                    "Free",
			Description:             "Basic data collection for small teams",
			MaxProgramsPerBusiness:  3,
			MaxActivitiesPerProgram: 5,
			MaxUsers:                5,
			Features: map[string]bool{
				"reports":          true,
				"api_access":       false,
				"custom_branding":  false,
				"priority_support": false,
				"audit_logs":       false,
			},
			PriceMonthly: 0,
			Status:       statusActive,
		},
		{
			Name:                    "Professional",
			Description:             "Advanced reporting and integrations for growing organizations",
			MaxProgramsPerBusiness:  20,
			MaxActivitiesPerProgram: 50,
			MaxUsers:                50,
			Features: map[string]bool{
				"reports":          true,
				"api_access":       true,
				"custom_branding":  true,
				"priority_support": false,
				"audit_logs":       true,
			},
			PriceMonthly: 49.00,
			Status:       statusActive,
		},
		{
			Name:                    "Enterprise",
			Description:             "Unlimited scale with dedicated support",
			MaxProgramsPerBusiness:  100,
			MaxActivitiesPerProgram: 500,
			MaxUsers:                500,
			Features: map[string]bool{
				"reports":          true,
				"api_access":       true,
				"custom_branding":  true,
				"priority_support": true,
				"audit_logs":       true,
			},
			PriceMonthly: 199.00,
			Status:       statusActive,
		},
	}
}

func (i *Initializer) ensurePlans(ctx context.Context, store Store) error {
	i.logger.Info("Setting up subscription plans...")

	for _, plan := range DefaultPlans() {
		_, found, err := store.PlanIDByName(ctx, plan.Name)
		if err != nil {
			return fmt.Errorf("failed to look up plan %s: %w", plan.Name, err)
		}
		if found {
			continue
		}

		err = withCreatedAtFallback(func(withCreatedAt bool) error {
			return store.InsertPlan(ctx, plan, withCreatedAt)
		})
		if err != nil {
			return fmt.Errorf("failed to create plan %s: %w", plan.Name, err)
		}
		i.logger.Infof("Created plan: %s", plan.Name)
	}

	return i.ensurePlanAssignment(ctx, store)
}

// ensurePlanAssignment gives the first business an active plan when it has none
func (i *Initializer) ensurePlanAssignment(ctx context.Context, store Store) error {
	businessID, err := firstBusinessID(ctx, store)
	if err != nil {
		return err
	}
	if businessID == nil {
		i.logger.Warn("No business found, skipping plan assignment")
		return nil
	}

	active, err := store.ActiveAssignmentCount(ctx, *businessID)
	if err != nil {
		return fmt.Errorf("failed to count plan assignments: %w", err)
	}
	if active > 0 {
		i.logger.Info("Default business already has an active plan")
		return nil
	}

	planID, found, err := store.PlanIDByName(ctx, DefaultPlanName)
	if err != nil {
		return fmt.Errorf("failed to look up plan %s: %w", DefaultPlanName, err)
	}
	if !found {
		planID, found, err = store.FirstPlanID(ctx)
		if err != nil {
			return fmt.Errorf("failed to look up first plan: %w", err)
		}
		if !found {
			i.logger.Warn("No plans available, skipping plan assignment")
			return nil
		}
	}

	var assignedBy *int64
	adminID, found, err := store.UserIDByRole(ctx, superAdminRole)
	if err != nil {
		return fmt.Errorf("failed to look up super admin: %w", err)
	}
	if found {
		assignedBy = &adminID
	}

	assignment := PlanAssignment{
		BusinessID: *businessID,
		PlanID:     planID,
		AssignedBy: assignedBy,
		Status:     statusActive,
	}
	err = withCreatedAtFallback(func(withCreatedAt bool) error {
		return store.InsertPlanAssignment(ctx, assignment, withCreatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to assign plan: %w", err)
	}

	i.logger.Infof("Assigned plan %d to business %d", planID, *businessID)
	return nil
}

// withCreatedAtFallback retries an insert once without created_at when the
// target table predates that column
func withCreatedAtFallback(insert func(withCreatedAt bool) error) error {
	err := insert(true)
	if err != nil && isMissingColumn(err, "created_at") {
		return insert(false)
	}
	return err
}
