package bootstrap

import "github.com/medassist/medassist/internal/domain/caserecord"

// DefaultSymptoms is the symptom vocabulary written on first run.
var DefaultSymptoms = []string{
	"fever", "cough", "fatigue", "headache", "sore throat",
	"nausea", "vomiting", "diarrhea", "shortness of breath", "chest pain",
	"joint pain", "muscle pain", "rash", "chills", "dizziness",
	"abdominal pain", "loss of appetite", "sweating", "swollen lymph nodes", "weight loss",
	"sneezing", "runny nose", "back pain", "itchy eyes", "ear pain",
	"difficulty swallowing", "dry mouth", "numbness", "blurred vision", "constipation",
}

// DefaultDiseases is the disease vocabulary written on first run.
var DefaultDiseases = []string{
	"flu", "common cold", "migraine", "pneumonia", "bronchitis",
	"gastroenteritis", "appendicitis", "arthritis", "dengue fever", "malaria",
	"typhoid fever", "strep throat", "sinusitis", "tonsillitis", "urinary tract infection",
	"mononucleosis", "hepatitis", "meningitis", "lyme disease", "chronic fatigue syndrome",
	"asthma", "conjunctivitis", "ear infection", "gastritis", "hypertension",
	"diabetes", "anemia", "eczema", "sprain", "kidney stones",
}

// SetupPatientID and SetupPatientName identify the seeded history rows.
const (
	SetupPatientID   = "P000"
	SetupPatientName = "Setup"
)

// defaultHistory maps each seeded symptom list to its disease.
var defaultHistory = [][2]string{
	{"fever,cough,fatigue", "flu"},
	{"fever,cough,sore throat,sneezing,runny nose", "common cold"},
	{"headache,dizziness,blurred vision", "migraine"},
	{"cough,shortness of breath,chest pain", "pneumonia"},
	{"cough,shortness of breath", "bronchitis"},
	{"nausea,vomiting,diarrhea", "gastroenteritis"},
	{"abdominal pain,fever", "appendicitis"},
	{"joint pain,muscle pain", "arthritis"},
	{"fever,rash,chills", "dengue fever"},
	{"fever,chills,sweating", "malaria"},
	{"fever,abdominal pain,weight loss", "typhoid fever"},
	{"sore throat,swollen lymph nodes", "strep throat"},
	{"headache,fever,runny nose", "sinusitis"},
	{"sore throat,fever,difficulty swallowing", "tonsillitis"},
	{"abdominal pain,diarrhea,constipation", "urinary tract infection"},
	{"fatigue,swollen lymph nodes", "mononucleosis"},
	{"nausea,vomiting,abdominal pain", "hepatitis"},
	{"fever,headache,dizziness", "meningitis"},
	{"rash,joint pain", "lyme disease"},
	{"fatigue,weight loss", "chronic fatigue syndrome"},
	{"shortness of breath,cough", "asthma"},
	{"itchy eyes,runny nose", "conjunctivitis"},
	{"ear pain,fever", "ear infection"},
	{"abdominal pain,nausea", "gastritis"},
	{"dizziness,chest pain", "hypertension"},
	{"fatigue,weight loss", "diabetes"},
	{"fatigue,numbness", "anemia"},
	{"rash,itching", "eczema"},
	{"joint pain,back pain", "sprain"},
	{"abdominal pain,difficulty urinating", "kidney stones"},
}

// DefaultRecords returns fresh copies of the seeded history records.
func DefaultRecords() []*caserecord.Record {
	out := make([]*caserecord.Record, 0, len(defaultHistory))
	for _, h := range defaultHistory {
		out = append(out, &caserecord.Record{
			PatientID:   SetupPatientID,
			PatientName: SetupPatientName,
			Symptoms:    caserecord.SplitList(h[0]),
			Diseases:    caserecord.SplitList(h[1]),
		})
	}
	return out
}
