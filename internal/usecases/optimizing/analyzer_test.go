package optimizing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func testOptimizationConfig() config.Optimization {
	return config.Optimization{
		TargetCPA:            50.0,
		TargetROAS:           2.0,
		MinDataDays:          3,
		MaxConcurrentJobs:    3,
		EntityTimeoutSeconds: 30,
		DryRun:               true,
	}
}

func activeAdSet(ageDays int) *domain.AdSet {
	return &domain.AdSet{
		ID:             "ADSET001",
		AccountID:      "ACC001",
		CampaignID:     "CAMP001",
		ExternalID:     "23850001",
		Name:           "Conjunto Remarketing",
		Status:         domain.EntityStatusActive,
		DailyBudget:    100.0,
		LearningStatus: domain.LearningStatusComplete,
		CreatedAt:      time.Now().AddDate(0, 0, -ageDays),
	}
}

func activeAd(ageDays int) *domain.Ad {
	return &domain.Ad{
		ID:           "AD001",
		AccountID:    "ACC001",
		AdSetID:      "ADSET001",
		ExternalID:   "23860001",
		Name:         "Anúncio Vídeo A",
		Status:       domain.EntityStatusActive,
		ReviewStatus: domain.ReviewStatusApproved,
		CreatedAt:    time.Now().AddDate(0, 0, -ageDays),
	}
}

// dailyEntries distribui os contadores igualmente entre os dias da janela
func dailyEntries(days, impressions, clicks, conversions int, spend, revenue, frequency float64) []*domain.EntityInsightEntry {
	entries := make([]*domain.EntityInsightEntry, 0, days)
	for i := 0; i < days; i++ {
		entries = append(entries, &domain.EntityInsightEntry{
			EntityType:  domain.EntityTypeAdSet,
			EntityID:    "ADSET001",
			Date:        time.Now().AddDate(0, 0, -(days - i)),
			Impressions: impressions / days,
			Clicks:      clicks / days,
			Conversions: conversions / days,
			Spend:       spend / float64(days),
			Revenue:     revenue / float64(days),
			Frequency:   frequency,
		})
	}
	return entries
}

func newAnalyzerWithMocks(t *testing.T) (*Analyzer, *mocks.MockAdSetRepository, *mocks.MockAdRepository, *mocks.MockCampaignRepository, *mocks.MockEntityInsightRepository) {
	ctrl := gomock.NewController(t)

	adSetRepo := mocks.NewMockAdSetRepository(ctrl)
	adRepo := mocks.NewMockAdRepository(ctrl)
	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	insightRepo := mocks.NewMockEntityInsightRepository(ctrl)

	analyzer := NewAnalyzer(adSetRepo, adRepo, campaignRepo, insightRepo)

	return analyzer, adSetRepo, adRepo, campaignRepo, insightRepo
}

func TestAnalyzer_AnalyzeAdSet_NaoEncontrado(t *testing.T) {
	analyzer, adSetRepo, _, _, _ := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("INEXISTENTE").Return(nil, nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "INEXISTENTE", testOptimizationConfig())

	assert.Nil(t, decision)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAnalyzer_AnalyzeAdSet_PausadoContaComoAusente(t *testing.T) {
	analyzer, adSetRepo, _, _, _ := newAnalyzerWithMocks(t)

	adSet := activeAdSet(10)
	adSet.Status = domain.EntityStatusPaused
	adSetRepo.EXPECT().GetByID("ADSET001").Return(adSet, nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	assert.Nil(t, decision)
	assert.True(t, IsNotFound(err))
}

func TestAnalyzer_AnalyzeAdSet_FaseDeAprendizado(t *testing.T) {
	analyzer, adSetRepo, _, _, insightRepo := newAnalyzerWithMocks(t)

	adSet := activeAdSet(3)
	adSet.LearningStatus = domain.LearningStatusLearning
	adSet.OptimizationEvents = 20

	adSetRepo.EXPECT().GetByID("ADSET001").Return(adSet, nil)
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(3, 3000, 60, 3, 90.0, 180.0, 1.5), nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionMonitor, decision.Action)
	assert.Equal(t, domain.PriorityLow, decision.Priority)
	assert.Nil(t, decision.Mutation)
	assert.Contains(t, decision.Reason, "aprendizado")
}

func TestAnalyzer_AnalyzeAdSet_TelemetriaInsuficiente(t *testing.T) {
	analyzer, adSetRepo, _, _, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(2, 2000, 40, 2, 60.0, 120.0, 1.5), nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	assert.Nil(t, decision)
}

func TestAnalyzer_AnalyzeAdSet_PausaPorROASBaixo(t *testing.T) {
	analyzer, adSetRepo, _, _, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)

	// ROAS agregado de 0.5 com amostra madura
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(7, 14000, 210, 14, 700.0, 350.0, 2.0), nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.PriorityHigh, decision.Priority)
	assert.Contains(t, decision.Reason, "ROAS")

	require.NotNil(t, decision.Mutation)
	assert.Equal(t, domain.MutationFieldStatus, decision.Mutation.Field)
	assert.Equal(t, string(domain.EntityStatusActive), decision.Mutation.PreviousValue)
	assert.Equal(t, string(domain.EntityStatusPaused), decision.Mutation.NewValue)
}

func TestAnalyzer_AnalyzeAdSet_VencedorEscalaOrcamento(t *testing.T) {
	analyzer, adSetRepo, _, campaignRepo, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)

	// ROAS 4.0, CPA 30, 42 conversões: vencedor com fator padrão de 20%
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(7, 49000, 840, 42, 1260.0, 5040.0, 2.0), nil)

	campaignRepo.EXPECT().GetByID("CAMP001").Return(&domain.Campaign{
		ID:          "CAMP001",
		TotalBudget: 1000.0,
	}, nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionScale, decision.Action)
	assert.Equal(t, domain.PriorityMedium, decision.Priority)

	require.NotNil(t, decision.Mutation)
	assert.Equal(t, domain.MutationFieldDailyBudget, decision.Mutation.Field)
	assert.Equal(t, "100.00", decision.Mutation.PreviousValue)
	assert.Equal(t, "120.00", decision.Mutation.NewValue)
}

func TestAnalyzer_AnalyzeAdSet_CampanhaAusente(t *testing.T) {
	analyzer, adSetRepo, _, campaignRepo, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(7, 49000, 840, 42, 1260.0, 5040.0, 2.0), nil)
	campaignRepo.EXPECT().GetByID("CAMP001").Return(nil, nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	assert.Nil(t, decision)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestAnalyzer_AnalyzeAdSet_FadigaCriativa(t *testing.T) {
	analyzer, adSetRepo, _, _, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)

	// Métricas saudáveis no agregado, mas CTR caindo 50% entre as metades da
	// janela e frequência média de 3.5: dois avisos de fadiga
	entries := make([]*domain.EntityInsightEntry, 0, 6)
	for i := 0; i < 3; i++ {
		entries = append(entries, &domain.EntityInsightEntry{
			Impressions: 2000, Clicks: 100, Conversions: 2,
			Spend: 50.0, Revenue: 100.0, Frequency: 3.5,
		})
	}
	for i := 0; i < 3; i++ {
		entries = append(entries, &domain.EntityInsightEntry{
			Impressions: 2000, Clicks: 50, Conversions: 2,
			Spend: 50.0, Revenue: 100.0, Frequency: 3.5,
		})
	}

	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(entries, nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionRefreshCreative, decision.Action)
	assert.Nil(t, decision.Mutation)
	assert.Contains(t, decision.Reason, "Fadiga")
}

func TestAnalyzer_AnalyzeAdSet_SaudavelSemDecisao(t *testing.T) {
	analyzer, adSetRepo, _, _, insightRepo := newAnalyzerWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAdSet, "ADSET001", gomock.Any(), gomock.Any()).
		Return(dailyEntries(7, 14000, 210, 14, 700.0, 1400.0, 2.0), nil)

	decision, err := analyzer.AnalyzeAdSet(context.Background(), "ADSET001", testOptimizationConfig())

	require.NoError(t, err)
	assert.Nil(t, decision)
}

func TestAnalyzer_AnalyzeAdSet_ContextoCancelado(t *testing.T) {
	analyzer, _, _, _, _ := newAnalyzerWithMocks(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decision, err := analyzer.AnalyzeAdSet(ctx, "ADSET001", testOptimizationConfig())

	assert.Nil(t, decision)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_AnalyzeAd_Reprovado(t *testing.T) {
	analyzer, _, adRepo, _, insightRepo := newAnalyzerWithMocks(t)

	ad := activeAd(5)
	ad.ReviewStatus = domain.ReviewStatusDisapproved

	adRepo.EXPECT().GetByID("AD001").Return(ad, nil)
	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAd, "AD001", gomock.Any(), gomock.Any()).
		Return(nil, nil)

	decision, err := analyzer.AnalyzeAd(context.Background(), "AD001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionMonitor, decision.Action)
	assert.Equal(t, domain.PriorityHigh, decision.Priority)
	assert.Equal(t, 1.0, decision.Confidence)
	assert.Nil(t, decision.Mutation)
}

func TestAnalyzer_AnalyzeAd_PausaPorCTRBaixo(t *testing.T) {
	analyzer, _, adRepo, _, insightRepo := newAnalyzerWithMocks(t)

	adRepo.EXPECT().GetByID("AD001").Return(activeAd(5), nil)

	// CTR 0.1% com 21000 impressões; amostra imatura para ShouldPause (21
	// cliques), mas o ramo dedicado de CTR baixo para anúncios dispara
	entries := make([]*domain.EntityInsightEntry, 0, 7)
	for i := 0; i < 7; i++ {
		entries = append(entries, &domain.EntityInsightEntry{
			Impressions: 3000, Clicks: 3, Conversions: 0,
			Spend: 10.0, Revenue: 0.0, Frequency: 1.5,
		})
	}

	insightRepo.EXPECT().
		GetByEntityAndDateRange(domain.EntityTypeAd, "AD001", gomock.Any(), gomock.Any()).
		Return(entries, nil)

	decision, err := analyzer.AnalyzeAd(context.Background(), "AD001", testOptimizationConfig())

	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, domain.ActionPause, decision.Action)
	assert.Equal(t, domain.PriorityMedium, decision.Priority)
	assert.Contains(t, decision.Reason, "CTR")

	require.NotNil(t, decision.Mutation)
	assert.Equal(t, domain.MutationFieldStatus, decision.Mutation.Field)
	assert.Equal(t, string(domain.EntityStatusPaused), decision.Mutation.NewValue)
}

func TestAnalyzer_AnalyzeAd_NaoEncontrado(t *testing.T) {
	analyzer, _, adRepo, _, _ := newAnalyzerWithMocks(t)

	adRepo.EXPECT().GetByID("AD404").Return(nil, nil)

	decision, err := analyzer.AnalyzeAd(context.Background(), "AD404", testOptimizationConfig())

	assert.Nil(t, decision)
	assert.True(t, IsNotFound(err))
}
