package registry

import "github.com/danass/leha/core/reconcile"

// Entity type names, used in reports, logs and archive member matching.
const (
	EntityFiches         = "fiches"
	EntityCertificateurs = "certificateurs"
	EntityPartenaires    = "partenaires"
	EntityBlocs          = "bloc_competences"
)

// SiretPlaceholder replaces an empty partner SIRET so the natural key stays
// stable across releases, matching the historical store contents.
const SiretPlaceholder = "UNKNOWN"

// FicheDescriptor is the root entity: one RNCP certification record. Column
// names follow the CSV export headers, lowercased.
func FicheDescriptor() *reconcile.Descriptor {
	return &reconcile.Descriptor{
		Name:       EntityFiches,
		Table:      "fiches",
		KeyColumns: []string{"numero_fiche"},
		Attributes: []reconcile.FieldSpec{
			{Column: "id_fiche"},
			{Column: "intitule"},
			{Column: "abrege_libelle"},
			{Column: "abrege_intitule"},
			{Column: "nomenclature_europe_niveau"},
			{Column: "nomenclature_europe_intitule"},
			{Column: "accessible_nouvelle_caledonie"},
			{Column: "accessible_polynesie_francaise"},
			{Column: "date_dernier_jo", Kind: reconcile.FieldDate},
			{Column: "date_decision", Kind: reconcile.FieldDate},
			{Column: "date_fin_enregistrement", Kind: reconcile.FieldDate},
			{Column: "date_effet", Kind: reconcile.FieldDate},
			{Column: "type_enregistrement"},
			{Column: "validation_partielle"},
			{Column: "actif"},
		},
	}
}

// CertificateurDescriptor describes a certifying body attached to a fiche.
func CertificateurDescriptor() *reconcile.Descriptor {
	return &reconcile.Descriptor{
		Name:       EntityCertificateurs,
		Table:      "certificateurs",
		KeyColumns: []string{"numero_fiche", "siret_certificateur"},
		Attributes: []reconcile.FieldSpec{
			{Column: "nom_certificateur"},
		},
		RefColumn: "numero_fiche",
	}
}

// PartenaireDescriptor describes a partner organization attached to a fiche.
// The SIRET can be blank in the source data, so it falls back to the
// placeholder and the partner name is part of the key.
func PartenaireDescriptor() *reconcile.Descriptor {
	return &reconcile.Descriptor{
		Name:       EntityPartenaires,
		Table:      "partenaires",
		KeyColumns: []string{"numero_fiche", "siret_partenaire", "nom_partenaire"},
		KeyDefaults: map[string]string{
			"siret_partenaire": SiretPlaceholder,
		},
		Attributes: []reconcile.FieldSpec{
			{Column: "habilitation_partenaire"},
		},
		RefColumn: "numero_fiche",
	}
}

// BlocDescriptor describes one competence block of a fiche.
func BlocDescriptor() *reconcile.Descriptor {
	return &reconcile.Descriptor{
		Name:       EntityBlocs,
		Table:      "bloc_competences",
		KeyColumns: []string{"numero_fiche", "bloc_competences_code"},
		Attributes: []reconcile.FieldSpec{
			{Column: "bloc_competences_libelle"},
		},
		RefColumn: "numero_fiche",
	}
}

// Descriptors returns every entity descriptor, root first, in the dependent
// order used throughout the pipeline.
func Descriptors() []*reconcile.Descriptor {
	return []*reconcile.Descriptor{
		FicheDescriptor(),
		CertificateurDescriptor(),
		PartenaireDescriptor(),
		BlocDescriptor(),
	}
}
