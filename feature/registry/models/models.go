package models

// Fiche is an RNCP certification record, the root of the registry schema.
type Fiche struct {
	NumeroFiche                  string `gorm:"column:numero_fiche;primaryKey" json:"numero_fiche"`
	IdFiche                      string `gorm:"column:id_fiche" json:"id_fiche,omitempty"`
	Intitule                     string `gorm:"column:intitule" json:"intitule,omitempty"`
	AbregeLibelle                string `gorm:"column:abrege_libelle" json:"abrege_libelle,omitempty"`
	AbregeIntitule               string `gorm:"column:abrege_intitule" json:"abrege_intitule,omitempty"`
	NomenclatureEuropeNiveau     string `gorm:"column:nomenclature_europe_niveau" json:"nomenclature_europe_niveau,omitempty"`
	NomenclatureEuropeIntitule   string `gorm:"column:nomenclature_europe_intitule" json:"nomenclature_europe_intitule,omitempty"`
	AccessibleNouvelleCaledonie  string `gorm:"column:accessible_nouvelle_caledonie" json:"accessible_nouvelle_caledonie,omitempty"`
	AccessiblePolynesieFrancaise string `gorm:"column:accessible_polynesie_francaise" json:"accessible_polynesie_francaise,omitempty"`
	DateDernierJo                string `gorm:"column:date_dernier_jo" json:"date_dernier_jo,omitempty"`
	DateDecision                 string `gorm:"column:date_decision" json:"date_decision,omitempty"`
	DateFinEnregistrement        string `gorm:"column:date_fin_enregistrement" json:"date_fin_enregistrement,omitempty"`
	DateEffet                    string `gorm:"column:date_effet" json:"date_effet,omitempty"`
	TypeEnregistrement           string `gorm:"column:type_enregistrement" json:"type_enregistrement,omitempty"`
	ValidationPartielle          string `gorm:"column:validation_partielle" json:"validation_partielle,omitempty"`
	Actif                        string `gorm:"column:actif" json:"actif,omitempty"`

	Certificateurs []Certificateur  `gorm:"foreignKey:NumeroFiche;references:NumeroFiche;constraint:OnDelete:RESTRICT" json:"certificateurs,omitempty"`
	Partenaires    []Partenaire     `gorm:"foreignKey:NumeroFiche;references:NumeroFiche;constraint:OnDelete:RESTRICT" json:"partenaires,omitempty"`
	Blocs          []BlocCompetence `gorm:"foreignKey:NumeroFiche;references:NumeroFiche;constraint:OnDelete:RESTRICT" json:"bloc_competences,omitempty"`
}

func (Fiche) TableName() string {
	return "fiches"
}

// Certificateur is a certifying body attached to a fiche.
type Certificateur struct {
	NumeroFiche        string `gorm:"column:numero_fiche;primaryKey;index" json:"numero_fiche"`
	SiretCertificateur string `gorm:"column:siret_certificateur;primaryKey" json:"siret_certificateur"`
	NomCertificateur   string `gorm:"column:nom_certificateur" json:"nom_certificateur,omitempty"`
}

func (Certificateur) TableName() string {
	return "certificateurs"
}

// Partenaire is a partner organization habilitated on a fiche. The partner
// name is part of the primary key because the source data reuses a
// placeholder SIRET for partners without one.
type Partenaire struct {
	NumeroFiche            string `gorm:"column:numero_fiche;primaryKey;index" json:"numero_fiche"`
	SiretPartenaire        string `gorm:"column:siret_partenaire;primaryKey" json:"siret_partenaire"`
	NomPartenaire          string `gorm:"column:nom_partenaire;primaryKey" json:"nom_partenaire"`
	HabilitationPartenaire string `gorm:"column:habilitation_partenaire" json:"habilitation_partenaire,omitempty"`
}

func (Partenaire) TableName() string {
	return "partenaires"
}

// BlocCompetence is one competence block of a fiche.
type BlocCompetence struct {
	NumeroFiche            string `gorm:"column:numero_fiche;primaryKey;index" json:"numero_fiche"`
	BlocCompetencesCode    string `gorm:"column:bloc_competences_code;primaryKey" json:"bloc_competences_code"`
	BlocCompetencesLibelle string `gorm:"column:bloc_competences_libelle" json:"bloc_competences_libelle,omitempty"`
}

func (BlocCompetence) TableName() string {
	return "bloc_competences"
}

// All returns every registry model, root first, for schema provisioning.
func All() []interface{} {
	return []interface{}{
		&Fiche{},
		&Certificateur{},
		&Partenaire{},
		&BlocCompetence{},
	}
}
