package sync

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/danass/leha/core/reconcile"
	"github.com/danass/leha/feature/registry"
	"github.com/danass/leha/feature/registry/store"
)

func setupRunner(t *testing.T) (*Runner, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, s.Provision(context.Background()))
	return NewRunner(s, nil, t.TempDir(), zap.NewNop()), s
}

func snapshotRows(fiches, certs, partners, blocs []map[string]string) map[string][]map[string]string {
	return map[string][]map[string]string{
		registry.EntityFiches:         fiches,
		registry.EntityCertificateurs: certs,
		registry.EntityPartenaires:    partners,
		registry.EntityBlocs:          blocs,
	}
}

func ficheRow(numero, intitule, actif string) map[string]string {
	return map[string]string{
		"numero_fiche": numero,
		"intitule":     intitule,
		"actif":        actif,
	}
}

func certRow(numero, siret, nom string) map[string]string {
	return map[string]string{
		"numero_fiche":        numero,
		"siret_certificateur": siret,
		"nom_certificateur":   nom,
	}
}

func TestRunnerInitialLoad(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	report, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{
			ficheRow("RNCP100", "Architecte logiciel", "ACTIVE"),
			ficheRow("RNCP200", "Soudeur", "ACTIVE"),
		},
		[]map[string]string{certRow("RNCP100", "11122233344455", "AFPA")},
		nil,
		nil,
	), false)
	require.NoError(t, err)

	fiches := report.Entity(registry.EntityFiches)
	assert.Equal(t, 2, fiches.Inserted)
	assert.Equal(t, 0, fiches.Updated)
	assert.Equal(t, 0, fiches.Deleted)

	certs := report.Entity(registry.EntityCertificateurs)
	assert.Equal(t, 1, certs.Inserted)

	rows, err := s.FetchAll(ctx, registry.FicheDescriptor())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunnerIsIdempotent(t *testing.T) {
	r, _ := setupRunner(t)
	ctx := context.Background()

	rows := snapshotRows(
		[]map[string]string{ficheRow("RNCP100", "Architecte logiciel", "ACTIVE")},
		[]map[string]string{certRow("RNCP100", "11122233344455", "AFPA")},
		nil,
		nil,
	)

	_, err := r.ReconcileRows(ctx, rows, false)
	require.NoError(t, err)

	report, err := r.ReconcileRows(ctx, rows, false)
	require.NoError(t, err)

	for _, e := range report.Entities() {
		assert.Zero(t, e.Inserted, e.Entity)
		assert.Zero(t, e.Updated, e.Entity)
		assert.Zero(t, e.Deleted, e.Entity)
	}
	assert.Equal(t, 1, report.Entity(registry.EntityFiches).Unchanged)
	assert.Equal(t, 1, report.Entity(registry.EntityCertificateurs).Unchanged)
}

func TestRunnerAppliesUpdatesAndDeletes(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	_, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{
			ficheRow("RNCP100", "Architecte logiciel", "ACTIVE"),
			ficheRow("RNCP200", "Soudeur", "ACTIVE"),
		},
		[]map[string]string{certRow("RNCP200", "99988877766655", "CNAM")},
		nil,
		nil,
	), false)
	require.NoError(t, err)

	// Next release: RNCP100 renamed, RNCP200 gone along with its
	// certificateur.
	report, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{ficheRow("RNCP100", "Architecte SI", "ACTIVE")},
		nil,
		nil,
		nil,
	), false)
	require.NoError(t, err)

	fiches := report.Entity(registry.EntityFiches)
	assert.Equal(t, 1, fiches.Updated)
	assert.Equal(t, 1, fiches.Deleted)
	assert.Equal(t, 1, report.Entity(registry.EntityCertificateurs).Deleted)

	rows, err := s.FetchAll(ctx, registry.FicheDescriptor())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Architecte SI", rows[0]["intitule"])

	certs, err := s.FetchAll(ctx, registry.CertificateurDescriptor())
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestRunnerCountsDuplicateKeys(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	report, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{
			ficheRow("RNCP100", "Architecte logiciel", "ACTIVE"),
			ficheRow("RNCP100", "Doublon", "INACTIVE"),
			ficheRow("RNCP200", "Soudeur", "ACTIVE"),
		},
		nil, nil, nil,
	), false)
	require.NoError(t, err)

	fiches := report.Entity(registry.EntityFiches)
	assert.Equal(t, 1, fiches.Collisions)
	assert.Equal(t, 2, fiches.Inserted)

	// First occurrence wins.
	rows, err := s.FetchAll(ctx, registry.FicheDescriptor())
	require.NoError(t, err)
	byNumero := map[string]string{}
	for _, row := range rows {
		byNumero[row["numero_fiche"]] = row["intitule"]
	}
	assert.Equal(t, "Architecte logiciel", byNumero["RNCP100"])
}

func TestRunnerExcludesOrphanReferences(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	report, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{ficheRow("RNCP100", "Architecte logiciel", "ACTIVE")},
		[]map[string]string{
			certRow("RNCP100", "11122233344455", "AFPA"),
			certRow("RNCP999", "22233344455566", "Fantome"),
		},
		nil,
		nil,
	), false)
	require.NoError(t, err)

	certs := report.Entity(registry.EntityCertificateurs)
	assert.Equal(t, 1, certs.Inserted)
	assert.Equal(t, 1, certs.Orphans)

	rows, err := s.FetchAll(ctx, registry.CertificateurDescriptor())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RNCP100", rows[0]["numero_fiche"])
}

func TestRunnerMissingMemberAborts(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	_, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{ficheRow("RNCP100", "Architecte logiciel", "ACTIVE")},
		nil, nil, nil,
	), false)
	require.NoError(t, err)

	rows := snapshotRows(nil, nil, nil, nil)
	delete(rows, registry.EntityFiches)
	_, err = r.ReconcileRows(ctx, rows, false)
	require.ErrorIs(t, err, reconcile.ErrMissingSnapshot)

	// Nothing was deleted.
	stored, err := s.FetchAll(ctx, registry.FicheDescriptor())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestRunnerDryRunLeavesStoreUntouched(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	report, err := r.ReconcileRows(ctx, snapshotRows(
		[]map[string]string{ficheRow("RNCP100", "Architecte logiciel", "ACTIVE")},
		nil, nil, nil,
	), true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Entity(registry.EntityFiches).Inserted)

	rows, err := s.FetchAll(ctx, registry.FicheDescriptor())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunnerFromLocalArchive(t *testing.T) {
	r, s := setupRunner(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	members := map[string]string{
		"export_fiches_CSV_Standard_2024.csv":             "Numero_Fiche;Intitule;Actif\nRNCP100;Architecte logiciel;ACTIVE\n",
		"export_fiches_CSV_Certificateurs_2024.csv":       "Numero_Fiche;Siret_Certificateur;Nom_Certificateur\nRNCP100;11122233344455;AFPA\n",
		"export_fiches_CSV_Partenaires_2024.csv":          "Numero_Fiche;Siret_Partenaire;Nom_Partenaire;Habilitation_Partenaire\nRNCP100;;Lycee Jean Moulin;HABILITATION_FORMER\n",
		"export_fiches_CSV_Blocs_De_Competences_2024.csv": "Numero_Fiche;Bloc_Competences_Code;Bloc_Competences_Libelle\nRNCP100;RNCP100BC01;Concevoir une architecture\n",
	}
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	report, err := r.Run(ctx, Options{ArchivePath: path})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Entity(registry.EntityFiches).Inserted)
	assert.Equal(t, 1, report.Entity(registry.EntityPartenaires).Inserted)
	assert.Equal(t, 1, report.Entity(registry.EntityBlocs).Inserted)

	// The blank partner SIRET takes the placeholder.
	partners, err := s.FetchAll(ctx, registry.PartenaireDescriptor())
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, registry.SiretPlaceholder, partners[0]["siret_partenaire"])
}
