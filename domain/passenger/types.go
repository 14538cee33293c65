package passenger

// Column names of the passenger tables as they appear in the CSV headers
const (
	ColPassengerID = "PassengerId"
	ColPclass      = "Pclass"
	ColName        = "Name"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColTicket      = "Ticket"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
	ColSurvived    = "Survived"
)

// File names expected under the data directory
const (
	TrainFile    = "train.csv"
	TestFile     = "test.csv"
	BaselineFile = "gender_submission.csv"
)

// Role tells the preprocessor how to treat a feature column
type Role string

const (
	RoleNumeric     Role = "numeric"
	RoleCategorical Role = "categorical"
)

// FeatureColumn is one entry of the feature recipe
type FeatureColumn struct {
	Name string `json:"name" yaml:"name"`
	Role Role   `json:"role" yaml:"role"`
}

// FeatureRecipe is the ordered, hard-coded list of model inputs.
// Numeric columns come first, then categorical ones; the encoded matrix
// follows the same order.
var FeatureRecipe = []FeatureColumn{
	{Name: ColAge, Role: RoleNumeric},
	{Name: ColSibSp, Role: RoleNumeric},
	{Name: ColParch, Role: RoleNumeric},
	{Name: ColFare, Role: RoleNumeric},
	{Name: ColPclass, Role: RoleCategorical},
	{Name: ColSex, Role: RoleCategorical},
	{Name: ColEmbarked, Role: RoleCategorical},
}

// NoisyColumns are never used as features. They are dropped if present.
var NoisyColumns = []string{ColName, ColCabin, ColTicket}

// Prediction pairs a passenger with a predicted survival label
type Prediction struct {
	PassengerID int `json:"passenger_id"`
	Survived    int `json:"survived"`
}

// ColumnsByRole returns the recipe's column names with the given role, in order.
func ColumnsByRole(recipe []FeatureColumn, role Role) []string {
	var names []string
	for _, c := range recipe {
		if c.Role == role {
			names = append(names, c.Name)
		}
	}
	return names
}
