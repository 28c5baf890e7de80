// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureCompanies contiene nombres de empresa de prueba válidos.
var FixtureCompanies = []string{
	"Maersk",
	"MSC",
	"CMA CGM",
	"Hapag-Lloyd",
	"ONE",
	"Evergreen",
	"COSCO Shipping",
	"ZIM",
	"Yang Ming",
	"HMM",
}

// FixtureURLs contiene URLs de portales de empleo de prueba.
var FixtureURLs = []string{
	"https://careers.example.com/jobs/1234/apply",
	"https://example.com/en/careers",
	"https://jobs.example.com/search?q=deck+officer",
	"http://apply.example.com:8080/form",
}

// FixtureConfirmations contiene frases de confirmación aceptadas tal como
// llegan del navegador (con mayúsculas y espacios varios).
var FixtureConfirmations = []string{
	"Thank You",
	"  application submitted ",
	"CONFIRMATION",
	"Application Received",
}

// FixtureRejections contiene frases que NO deben contar como confirmación.
var FixtureRejections = []string{
	"",
	"thanks",
	"submitted",
	"your application was received by our team",
	"thank you for your interest in other roles",
}

// FixtureWorkerJSON es una línea de salida válida de un worker de aplicación.
const FixtureWorkerJSON = `{"status":"COMPLETE","detail":"","text_hits":["Thank You"],"url_match":true,"screenshot":"maersk_success.png","final_url":"https://careers.example.com/thanks","filled_count":12,"eeo_actions":3,"resume_uploads":1}`
