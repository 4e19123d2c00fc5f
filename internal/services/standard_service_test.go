// internal/services/standard_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tradenet/portal-backend/internal/models"
)

func criterion(weight float64, maxScore int) models.StandardCriterion {
	return models.StandardCriterion{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Weight:    weight,
		MaxScore:  maxScore,
		IsActive:  true,
	}
}

func TestComputeWeightedScorePerfect(t *testing.T) {
	c1 := criterion(30, 10)
	c2 := criterion(20, 5)

	total := ComputeWeightedScore(
		[]models.StandardCriterion{c1, c2},
		[]CriterionScore{
			{CriterionID: c1.ID, Score: 10},
			{CriterionID: c2.ID, Score: 5},
		},
	)

	assert.InDelta(t, 100.0, total, 0.0001)
}

func TestComputeWeightedScoreRespectsWeights(t *testing.T) {
	heavy := criterion(75, 10)
	light := criterion(25, 10)

	// Full marks on the heavy criterion only
	total := ComputeWeightedScore(
		[]models.StandardCriterion{heavy, light},
		[]CriterionScore{
			{CriterionID: heavy.ID, Score: 10},
			{CriterionID: light.ID, Score: 0},
		},
	)
	assert.InDelta(t, 75.0, total, 0.0001)

	// Full marks on the light criterion only
	total = ComputeWeightedScore(
		[]models.StandardCriterion{heavy, light},
		[]CriterionScore{
			{CriterionID: heavy.ID, Score: 0},
			{CriterionID: light.ID, Score: 10},
		},
	)
	assert.InDelta(t, 25.0, total, 0.0001)
}

func TestComputeWeightedScoreNormalizesByMaxScore(t *testing.T) {
	// Same weight, different scales: 3/5 and 6/10 are the same performance.
	outOfFive := criterion(50, 5)
	outOfTen := criterion(50, 10)

	total := ComputeWeightedScore(
		[]models.StandardCriterion{outOfFive, outOfTen},
		[]CriterionScore{
			{CriterionID: outOfFive.ID, Score: 3},
			{CriterionID: outOfTen.ID, Score: 6},
		},
	)
	assert.InDelta(t, 60.0, total, 0.0001)
}

func TestComputeWeightedScoreEmptyCriteria(t *testing.T) {
	assert.Zero(t, ComputeWeightedScore(nil, nil))
}

func TestGradeForScore(t *testing.T) {
	assert.Equal(t, "A", GradeForScore(95))
	assert.Equal(t, "A", GradeForScore(90))
	assert.Equal(t, "B", GradeForScore(82.5))
	assert.Equal(t, "C", GradeForScore(60))
	assert.Equal(t, "D", GradeForScore(45))
	assert.Equal(t, "F", GradeForScore(12))
	assert.Equal(t, "F", GradeForScore(0))
}
