package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"gotitanic/domain/passenger"
)

// PassengerGeneratorConfig configures the synthetic passenger generator
type PassengerGeneratorConfig struct {
	TrainCount   int     `json:"train_count"`
	TestCount    int     `json:"test_count"`
	MissingAge   float64 `json:"missing_age"`   // fraction of rows with blank Age
	MissingCabin float64 `json:"missing_cabin"` // fraction of rows with blank Cabin
	Seed         int64   `json:"seed"`
}

// DefaultPassengerConfig returns a small but realistic configuration
func DefaultPassengerConfig() PassengerGeneratorConfig {
	return PassengerGeneratorConfig{
		TrainCount:   120,
		TestCount:    40,
		MissingAge:   0.2,
		MissingCabin: 0.7,
		Seed:         42,
	}
}

// TrainHeader is the column layout of train.csv
var TrainHeader = []string{
	passenger.ColPassengerID, passenger.ColSurvived, passenger.ColPclass, passenger.ColName,
	passenger.ColSex, passenger.ColAge, passenger.ColSibSp, passenger.ColParch,
	passenger.ColTicket, passenger.ColFare, passenger.ColCabin, passenger.ColEmbarked,
}

// TestHeader is the column layout of test.csv
var TestHeader = []string{
	passenger.ColPassengerID, passenger.ColPclass, passenger.ColName,
	passenger.ColSex, passenger.ColAge, passenger.ColSibSp, passenger.ColParch,
	passenger.ColTicket, passenger.ColFare, passenger.ColCabin, passenger.ColEmbarked,
}

// BaselineHeader is the column layout of gender_submission.csv
var BaselineHeader = []string{passenger.ColPassengerID, passenger.ColSurvived}

// PassengerDataGenerator generates deterministic passenger tables
type PassengerDataGenerator struct {
	config PassengerGeneratorConfig
	rng    *rand.Rand
}

// NewPassengerDataGenerator creates a generator seeded from config
func NewPassengerDataGenerator(config PassengerGeneratorConfig) *PassengerDataGenerator {
	return &PassengerDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GeneratedData holds header-first record sets for the three files
type GeneratedData struct {
	Train    [][]string
	Test     [][]string
	Baseline [][]string
}

// Generate draws TrainCount labelled rows, then TestCount unlabelled rows.
// The baseline labels every female test passenger as a survivor.
func (g *PassengerDataGenerator) Generate() GeneratedData {
	data := GeneratedData{
		Train:    [][]string{TrainHeader},
		Test:     [][]string{TestHeader},
		Baseline: [][]string{BaselineHeader},
	}

	id := 1
	for i := 0; i < g.config.TrainCount; i++ {
		p := g.drawPassenger(id)
		data.Train = append(data.Train, []string{
			p.id, p.survived, p.pclass, p.name, p.sex, p.age, p.sibsp, p.parch, p.ticket, p.fare, p.cabin, p.embarked,
		})
		id++
	}
	for i := 0; i < g.config.TestCount; i++ {
		p := g.drawPassenger(id)
		data.Test = append(data.Test, []string{
			p.id, p.pclass, p.name, p.sex, p.age, p.sibsp, p.parch, p.ticket, p.fare, p.cabin, p.embarked,
		})
		baseline := "0"
		if p.sex == "female" {
			baseline = "1"
		}
		data.Baseline = append(data.Baseline, []string{p.id, baseline})
		id++
	}
	return data
}

type draw struct {
	id, survived, pclass, name, sex, age, sibsp, parch, ticket, fare, cabin, embarked string
}

func (g *PassengerDataGenerator) drawPassenger(id int) draw {
	pclass := 1 + g.rng.Intn(3)
	female := g.rng.Float64() < 0.35

	// Survival odds follow the usual pattern: women and upper classes first
	odds := 0.2
	if female {
		odds = 0.75
	}
	odds += 0.1 * float64(2-pclass)
	survived := 0
	if g.rng.Float64() < odds {
		survived = 1
	}

	sex := "male"
	title := "Mr."
	if female {
		sex = "female"
		title = "Mrs."
	}

	age := ""
	if g.rng.Float64() >= g.config.MissingAge {
		age = strconv.FormatFloat(float64(1+g.rng.Intn(70))+0.5*float64(g.rng.Intn(2)), 'f', -1, 64)
	}
	cabin := ""
	if g.rng.Float64() >= g.config.MissingCabin {
		cabin = fmt.Sprintf("%c%d", 'A'+rune(g.rng.Intn(6)), 1+g.rng.Intn(120))
	}
	fare := (4 - float64(pclass)) * (8 + 30*g.rng.Float64())
	ports := []string{"S", "S", "S", "C", "Q"}

	return draw{
		id:       strconv.Itoa(id),
		survived: strconv.Itoa(survived),
		pclass:   strconv.Itoa(pclass),
		name:     fmt.Sprintf("Passenger%d, %s Synthetic", id, title),
		sex:      sex,
		age:      age,
		sibsp:    strconv.Itoa(g.rng.Intn(3)),
		parch:    strconv.Itoa(g.rng.Intn(3)),
		ticket:   fmt.Sprintf("T-%05d", 10000+g.rng.Intn(90000)),
		fare:     strconv.FormatFloat(fare, 'f', 4, 64),
		cabin:    cabin,
		embarked: ports[g.rng.Intn(len(ports))],
	}
}

// WriteCSV writes header-first records to path
func WriteCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteDataDir writes train.csv, test.csv and, if withBaseline is set,
// gender_submission.csv into dir.
func WriteDataDir(dir string, data GeneratedData, withBaseline bool) error {
	if err := WriteCSV(filepath.Join(dir, passenger.TrainFile), data.Train); err != nil {
		return err
	}
	if err := WriteCSV(filepath.Join(dir, passenger.TestFile), data.Test); err != nil {
		return err
	}
	if withBaseline {
		return WriteCSV(filepath.Join(dir, passenger.BaselineFile), data.Baseline)
	}
	return nil
}
