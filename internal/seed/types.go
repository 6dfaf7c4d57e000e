package seed

// File is a development fixture: agencies with their owner, team,
// sub-accounts, access grants and pending invitations.
type File struct {
	Agencies []AgencyDef `yaml:"agencies"`
}

type AgencyDef struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Logo         string          `yaml:"logo"`
	CompanyEmail string          `yaml:"company_email"`
	CompanyPhone string          `yaml:"company_phone"`
	WhiteLabel   bool            `yaml:"white_label"`
	Address      AddressDef      `yaml:"address"`
	Owner        UserDef         `yaml:"owner"`
	Team         []UserDef       `yaml:"team"`
	SubAccounts  []SubAccountDef `yaml:"subaccounts"`
	Invitations  []InvitationDef `yaml:"invitations"`
}

type AddressDef struct {
	Street  string `yaml:"street"`
	City    string `yaml:"city"`
	ZipCode string `yaml:"zip_code"`
	State   string `yaml:"state"`
	Country string `yaml:"country"`
}

// UserDef.ID is the identity provider subject the user signs in as.
type UserDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Avatar string `yaml:"avatar"`
	Role   string `yaml:"role"`
}

type SubAccountDef struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Logo         string     `yaml:"logo"`
	CompanyEmail string     `yaml:"company_email"`
	CompanyPhone string     `yaml:"company_phone"`
	Address      AddressDef `yaml:"address"`
	// Access lists team emails granted access to this sub-account.
	Access []string `yaml:"access"`
}

type InvitationDef struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}
