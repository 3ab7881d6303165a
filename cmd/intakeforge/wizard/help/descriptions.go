package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all wizard fields
var Texts = map[string]HelpText{
	"name": {
		Title:       "FULL NAME",
		Description: "The patient's full name.",
		Details:     "Used to address you in the analysis report. Required.",
	},
	"age": {
		Title:       "AGE",
		Description: "Age in whole years.",
		Details:     "Must be a positive whole number. Age influences which conditions the analysis considers.",
	},
	"gender": {
		Title:       "GENDER",
		Description: "Gender as recorded for clinical purposes.",
		Details:     "Some conditions present differently by gender; 'Other' is always available.",
	},
	"weight": {
		Title:       "WEIGHT",
		Description: "Body weight, optional.",
		Details:     "Leave blank to skip. If you enter a value, pick a unit (kg or lb) as well.",
	},
	"weight_unit": {
		Title:       "WEIGHT UNIT",
		Description: "Unit for the weight value.",
		Details:     "Required whenever a weight is entered.",
	},
	"height": {
		Title:       "HEIGHT",
		Description: "Body height, optional.",
		Details:     "Leave blank to skip. If you enter a value, pick a unit (cm or in) as well.",
	},
	"height_unit": {
		Title:       "HEIGHT UNIT",
		Description: "Unit for the height value.",
		Details:     "Required whenever a height is entered.",
	},
	"symptom_name": {
		Title:       "SYMPTOM",
		Description: "One symptom you are experiencing.",
		Details:     "Be specific: 'throbbing headache behind the eyes' beats 'headache'. At least one symptom is required.",
	},
	"symptom_severity": {
		Title:       "SEVERITY",
		Description: "How severe this symptom is.",
		Details: `Mild     - noticeable but not limiting
Moderate - interferes with daily activities
Severe   - prevents normal activities`,
	},
	"image_path": {
		Title:       "MEDICAL IMAGE",
		Description: "Path to an image file to attach, optional.",
		Details:     "JPEG, PNG, WebP or DICOM, up to 10 MiB. Leave blank to continue without an image.",
	},
	"image_description": {
		Title:       "IMAGE DESCRIPTION",
		Description: "What the attached image shows.",
		Details:     "Required when an image is attached; at most 1000 characters. Example: 'rash on left forearm, day 3'.",
	},
	"past_conditions": {
		Title:       "PAST CONDITIONS",
		Description: "Previously diagnosed conditions, comma-separated.",
		Details:     "Example: asthma, hypertension. Optional; leave blank if none.",
	},
	"current_medications": {
		Title:       "CURRENT MEDICATIONS",
		Description: "Medications you take today, comma-separated.",
		Details:     "Include dosage if you know it. Optional; leave blank if none.",
	},
	"draft_path": {
		Title:       "DRAFT PATH",
		Description: "Where to save the assessment draft.",
		Details:     "A YAML file you can resume with 'intakeforge wizard --from <path>'.",
	},
}
