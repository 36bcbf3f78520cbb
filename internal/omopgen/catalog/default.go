package catalog

import "github.com/vaibhaw-/omopgen/internal/omopgen/sampler"

// Visit concept identifiers.
const (
	InpatientVisit  int64 = 9201
	OutpatientVisit int64 = 9202
)

// Default returns the built-in catalogue. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Demographics: Demographics{
			Gender: []sampler.Weighted{
				{Value: 8507, Weight: 0.5, Label: "MALE"},
				{Value: 8532, Weight: 0.5, Label: "FEMALE"},
			},
			Race: []sampler.Weighted{
				{Value: 8527, Weight: 0.70, Label: "White"},
				{Value: 8516, Weight: 0.10, Label: "Black or African American"},
				{Value: 8515, Weight: 0.10, Label: "Asian"},
				{Value: 38003579, Weight: 0.10, Label: "Chinese"},
			},
			Ethnicity: []sampler.Weighted{
				{Value: 38003564, Weight: 1.0, Label: "Not Hispanic"},
				{Value: 38003563, Weight: 0.0, Label: "Hispanic"},
			},
			Age: AgeModel{Alpha: 6, Beta: 2, Min: 18, Max: 88},
		},
		VisitTypes: []sampler.Weighted{
			{Value: InpatientVisit, Weight: 0.3, Label: "Inpatient Visit"},
			{Value: OutpatientVisit, Weight: 0.7, Label: "Outpatient Visit"},
		},
		ConditionClusters: Clusters{Themes: []Theme{
			{Name: "cardiometabolic", Weight: 0.25, Concepts: []sampler.Weighted{
				{Value: 316866, Weight: 0.30, Label: "Hypertensive disorder"},
				{Value: 201820, Weight: 0.20, Label: "Diabetes mellitus"},
				{Value: 321588, Weight: 0.15, Label: "Heart disease"},
				{Value: 381591, Weight: 0.15, Label: "Cerebrovascular disease"},
				{Value: 434376, Weight: 0.10, Label: "Acute myocardial infarction"},
				{Value: 321052, Weight: 0.10, Label: "Peripheral vascular disease"},
			}},
			{Name: "respiratory", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 255848, Weight: 0.30, Label: "Pneumonia"},
				{Value: 255573, Weight: 0.25, Label: "Chronic obstructive lung disease"},
				{Value: 260139, Weight: 0.20, Label: "Acute bronchitis"},
				{Value: 256449, Weight: 0.15, Label: "Bronchiectasis"},
				{Value: 261880, Weight: 0.10, Label: "Atelectasis"},
			}},
			{Name: "musculoskeletal", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 80180, Weight: 0.30, Label: "Osteoarthritis"},
				{Value: 80809, Weight: 0.25, Label: "Rheumatoid arthritis"},
				{Value: 4046660, Weight: 0.20, Label: "Chronic back pain"},
				{Value: 4291025, Weight: 0.15, Label: "Inflammatory arthritis"},
				{Value: 4000634, Weight: 0.10, Label: "Acute arthritis"},
			}},
			{Name: "gastrointestinal", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 4027663, Weight: 0.30, Label: "Peptic ulcer"},
				{Value: 40398568, Weight: 0.20, Label: "Duodenal ulcer"},
				{Value: 201340, Weight: 0.20, Label: "Gastritis"},
				{Value: 4074815, Weight: 0.15, Label: "Inflammatory bowel disease"},
				{Value: 45470366, Weight: 0.15, Label: "Oesophagitis"},
			}},
			{Name: "mental_health", Weight: 0.15, Concepts: []sampler.Weighted{
				{Value: 4152280, Weight: 0.30, Label: "Major depressive disorder"},
				{Value: 434613, Weight: 0.25, Label: "Generalized anxiety disorder"},
				{Value: 40388256, Weight: 0.20, Label: "Bipolar disorder"},
				{Value: 435783, Weight: 0.15, Label: "Schizophrenia"},
				{Value: 40388323, Weight: 0.10, Label: "Post-traumatic stress disorder"},
			}},
		}},
		DrugClusters: Clusters{Themes: []Theme{
			{Name: "cardiometabolic", Weight: 0.25, Concepts: []sampler.Weighted{
				{Value: 1112807, Weight: 0.35, Label: "Aspirin"},
				{Value: 1503297, Weight: 0.35, Label: "Metformin"},
				{Value: 1545958, Weight: 0.30, Label: "Atorvastatin"},
			}},
			{Name: "respiratory", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 1154343, Weight: 0.40, Label: "Albuterol"},
				{Value: 1550557, Weight: 0.35, Label: "Prednisolone"},
				{Value: 1154161, Weight: 0.25, Label: "Montelukast"},
			}},
			{Name: "musculoskeletal", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 1201620, Weight: 0.30, Label: "Codeine"},
				{Value: 1115008, Weight: 0.55, Label: "Naproxen"},
				{Value: 1110410, Weight: 0.15, Label: "Morphine"},
			}},
			{Name: "gastrointestinal", Weight: 0.20, Concepts: []sampler.Weighted{
				{Value: 948078, Weight: 0.65, Label: "Pantoprazole"},
				{Value: 961047, Weight: 0.35, Label: "Ranitidine"},
			}},
			{Name: "mental_health", Weight: 0.15, Concepts: []sampler.Weighted{
				{Value: 739138, Weight: 0.40, Label: "Sertraline"},
				{Value: 1153013, Weight: 0.35, Label: "Promethazine"},
				{Value: 19124477, Weight: 0.25, Label: "Lithium"},
			}},
		}},
		Measurements: []MeasurementDef{
			// g/dL
			{Name: "Hemoglobin", ConceptID: 3000963, UnitConceptID: 8713, Mean: 12, Std: 1.5, Probability: 0.8},
			// umol/L
			{Name: "Creatinine", ConceptID: 3032033, UnitConceptID: 8749, Mean: 70, Std: 30, Probability: 0.6},
			// kg/m2
			{Name: "BMI", ConceptID: 3038553, UnitConceptID: 9531, Mean: 27.0, Std: 5.0, Probability: 0.9},
			// mmHg
			{Name: "Systolic Blood Pressure", ConceptID: 3004249, UnitConceptID: 8876, Mean: 130, Std: 25, Probability: 0.9},
		},
	}
}
