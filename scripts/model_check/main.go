package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/internal/risk"
)

type sample struct {
	Name     string               `json:"name"`
	Features models.FeatureVector `json:"features"`
	Expected models.RiskLevel     `json:"expected,omitempty"`
	Critical bool                 `json:"critical"`
}

type casesFile struct {
	Cases []sample `json:"cases"`
}

type comparison struct {
	Sample      sample
	Model       models.RiskAssessment
	Rules       models.RiskAssessment
	Agree       bool
	ExpectMatch bool
	Error       error
}

// classifier is satisfied by risk.TrainedModel and risk.RuleBased.
type classifier interface {
	Classify(signals models.RiskSignals) (models.RiskAssessment, error)
}

func main() {
	var (
		modelPath string
		casesPath string
	)

	flag.StringVar(&modelPath, "model", filepath.Join("models", "risk_model.json"), "Path to the trained model artifact")
	flag.StringVar(&casesPath, "cases", filepath.Join("scripts", "model_check", "cases.json"), "Path to JSON feature cases")
	flag.Parse()

	model, err := risk.LoadModel(modelPath)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	cases, err := loadCases(casesPath)
	if err != nil {
		log.Fatalf("failed to load cases: %v", err)
	}

	var (
		comparisons []comparison
		breaking    int
		disagree    int
	)
	for _, c := range cases {
		comp := compareSample(model, risk.RuleBased{}, c)
		if comp.Error != nil || !comp.ExpectMatch {
			if c.Critical {
				breaking++
			}
		}
		if !comp.Agree {
			disagree++
		}
		comparisons = append(comparisons, comp)
	}

	printReport(model, comparisons)

	fmt.Printf("Breaking mismatches: %d, Model/rule disagreements: %d\n", breaking, disagree)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file casesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}
	return file.Cases, nil
}

func compareSample(model, rules classifier, s sample) comparison {
	comp := comparison{Sample: s}
	signals := models.RiskSignals{Features: s.Features}

	modelOut, err := model.Classify(signals)
	if err != nil {
		comp.Error = fmt.Errorf("model classify: %w", err)
		return comp
	}
	ruleOut, err := rules.Classify(signals)
	if err != nil {
		comp.Error = fmt.Errorf("rule classify: %w", err)
		return comp
	}

	comp.Model = modelOut
	comp.Rules = ruleOut
	comp.Agree = modelOut.RiskLevel == ruleOut.RiskLevel
	comp.ExpectMatch = s.Expected == "" || s.Expected == modelOut.RiskLevel
	return comp
}

func printReport(model *risk.TrainedModel, results []comparison) {
	fmt.Println("Model Check Report")
	fmt.Println("==================")
	fmt.Printf("Model: %s (features %v, classes %v)\n", model.ModelType(), model.Features(), model.Classes())
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.ExpectMatch {
			status = "MISMATCH"
		} else if !res.Agree {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Sample.Name)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Model: %s (%.2f) | Rules: %s (%.2f)", res.Model.RiskLevel, res.Model.Confidence, res.Rules.RiskLevel, res.Rules.Confidence)
		if res.Sample.Expected != "" {
			fmt.Printf(" | Expected: %s", res.Sample.Expected)
		}
		fmt.Printf(" | Critical: %t\n", res.Sample.Critical)
	}
}
