package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/danass/leha/feature/registry/models"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	app := fiber.New()
	NewHandler(NewService(db, zap.NewNop())).RegisterRoutes(app)
	return app, db
}

func seedFiches(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Fiche{
		NumeroFiche:              "RNCP100",
		Intitule:                 "Architecte logiciel",
		NomenclatureEuropeNiveau: "NIV7",
		Actif:                    "ACTIVE",
		Certificateurs: []models.Certificateur{
			{SiretCertificateur: "11122233344455", NomCertificateur: "AFPA"},
		},
		Blocs: []models.BlocCompetence{
			{BlocCompetencesCode: "RNCP100BC01", BlocCompetencesLibelle: "Concevoir une architecture"},
		},
	}).Error)
	require.NoError(t, db.Create(&models.Fiche{
		NumeroFiche: "RNCP200",
		Intitule:    "Soudeur",
		Actif:       "INACTIVE",
	}).Error)
}

func TestHandleGetFiche(t *testing.T) {
	app, db := setupApp(t)
	seedFiches(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiches/RNCP100", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fiche models.Fiche
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fiche))
	assert.Equal(t, "Architecte logiciel", fiche.Intitule)
	require.Len(t, fiche.Certificateurs, 1)
	assert.Equal(t, "AFPA", fiche.Certificateurs[0].NomCertificateur)
	require.Len(t, fiche.Blocs, 1)
	assert.Equal(t, "RNCP100BC01", fiche.Blocs[0].BlocCompetencesCode)
}

func TestHandleGetFicheNotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiches/RNCP999", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleListFiches(t *testing.T) {
	app, db := setupApp(t)
	seedFiches(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiches/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Total  int64          `json:"total"`
		Limit  int            `json:"limit"`
		Fiches []models.Fiche `json:"fiches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, defaultPageSize, page.Limit)
	require.Len(t, page.Fiches, 2)
	// Ordered newest numero first.
	assert.Equal(t, "RNCP200", page.Fiches[0].NumeroFiche)
}

func TestHandleListFichesFiltersActif(t *testing.T) {
	app, db := setupApp(t)
	seedFiches(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiches/?actif=ACTIVE", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Total  int64          `json:"total"`
		Fiches []models.Fiche `json:"fiches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Fiches, 1)
	assert.Equal(t, "RNCP100", page.Fiches[0].NumeroFiche)
}

func TestHandleListFichesPagination(t *testing.T) {
	app, db := setupApp(t)
	seedFiches(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiches/?limit=1&offset=1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Total  int64          `json:"total"`
		Fiches []models.Fiche `json:"fiches"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Fiches, 1)
	assert.Equal(t, "RNCP100", page.Fiches[0].NumeroFiche)
}
