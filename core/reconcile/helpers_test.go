package reconcile

// Shared fixtures for the engine tests: a small root entity and one
// dependent, shaped like the registry descriptors but kept minimal.

func testRootDesc() *Descriptor {
	return &Descriptor{
		Name:       "fiches",
		Table:      "fiches",
		KeyColumns: []string{"numero_fiche"},
		Attributes: []FieldSpec{
			{Column: "intitule"},
			{Column: "nomenclature_europe_niveau"},
			{Column: "date_fin_enregistrement", Kind: FieldDate},
			{Column: "actif"},
		},
	}
}

func testChildDesc() *Descriptor {
	return &Descriptor{
		Name:       "certificateurs",
		Table:      "certificateurs",
		KeyColumns: []string{"numero_fiche", "siret_certificateur"},
		Attributes: []FieldSpec{
			{Column: "nom_certificateur"},
		},
		RefColumn: "numero_fiche",
	}
}

func mustNormalize(desc *Descriptor, rows []map[string]string) []Record {
	records, _ := NormalizeAll(desc, rows)
	return records
}

func indexRows(desc *Descriptor, rows []map[string]string) *Index {
	return BuildIndex(desc, mustNormalize(desc, rows))
}

func emptyIndex(desc *Descriptor) *Index {
	return BuildIndex(desc, nil)
}
