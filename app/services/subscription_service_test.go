package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/database"
)

func createPlan(t *testing.T, days, mealsPerDay int) models.SubscriptionPlan {
	t.Helper()

	plan := models.SubscriptionPlan{
		Name:        "Weekly Full Board",
		Price:       1200,
		Duration:    days,
		MealsPerDay: mealsPerDay,
		IsActive:    true,
	}
	require.NoError(t, database.DB.Create(&plan).Error)
	return plan
}

func TestActivateGrantsMealAllowance(t *testing.T) {
	setupDB(t)
	svc := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 2)

	sub, err := svc.Activate(database.DB, user.ID, plan.ID, "pi_test_1")
	require.NoError(t, err)

	assert.Equal(t, 14, sub.RemainingMeals)
	assert.True(t, sub.IsActive)
	assert.Equal(t, "pi_test_1", sub.PaymentID)

	wantEnd := sub.StartDate.AddDate(0, 0, plan.Duration)
	assert.WithinDuration(t, wantEnd, sub.EndDate, time.Second)
}

func TestRedeemMealCountsDownAndDeactivates(t *testing.T) {
	setupDB(t)
	svc := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 1, 2)

	_, err := svc.Activate(database.DB, user.ID, plan.ID, "pi_test_1")
	require.NoError(t, err)

	sub, err := svc.RedeemMeal(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.RemainingMeals)

	sub, err = svc.RedeemMeal(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.RemainingMeals)
	assert.False(t, sub.IsActive)

	// Exhausted subscription is gone; nothing left to redeem.
	_, err = svc.RedeemMeal(user.ID)
	assert.ErrorIs(t, err, services.ErrNoActiveSubscription)
}

func TestCancelSubscription(t *testing.T) {
	setupDB(t)
	svc := services.NewSubscriptionService()
	asha := createUser(t, "asha@mlrit.ac.in", 0)
	ravi := createUser(t, "ravi@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 1)

	sub, err := svc.Activate(database.DB, asha.ID, plan.ID, "pi_test_1")
	require.NoError(t, err)

	_, err = svc.Cancel(sub.ID, ravi.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	cancelled, err := svc.Cancel(sub.ID, asha.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.IsActive)

	// Cancelling again is a no-op.
	cancelled, err = svc.Cancel(sub.ID, asha.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.IsActive)

	_, err = svc.Active(asha.ID)
	assert.ErrorIs(t, err, services.ErrNoActiveSubscription)
}

func TestExpireOverdue(t *testing.T) {
	setupDB(t)
	svc := services.NewSubscriptionService()
	user := createUser(t, "asha@mlrit.ac.in", 0)
	plan := createPlan(t, 7, 1)

	sub, err := svc.Activate(database.DB, user.ID, plan.ID, "pi_test_1")
	require.NoError(t, err)

	// Push the end date into the past, then run the sweep.
	require.NoError(t, database.DB.Model(&sub).
		Update("end_date", time.Now().Add(-time.Hour)).Error)

	svc.ExpireOverdue()

	_, err = svc.Active(user.ID)
	assert.ErrorIs(t, err, services.ErrNoActiveSubscription)
}

func TestPlanCRUD(t *testing.T) {
	setupDB(t)
	svc := services.NewSubscriptionService()

	plan, err := svc.CreatePlan(services.PlanInput{
		Name: "Monthly Lunch", Price: 2400, Duration: 30, MealsPerDay: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, plan.TotalMeals())

	plans, err := svc.ListPlans()
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	// Soft delete hides the plan from the purchasable list.
	require.NoError(t, svc.DeletePlan(plan.ID))
	plans, err = svc.ListPlans()
	require.NoError(t, err)
	assert.Empty(t, plans)

	// The row survives for existing subscription references.
	stored, err := svc.GetPlan(plan.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
