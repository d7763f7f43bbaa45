package main

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8083"
	defaultAPIKey    = "ocr-provider-secret-key"
	defaultLatencyMs = "150"
)

// AnalyzeRequest is the body accepted on the full-analysis endpoint.
type AnalyzeRequest struct {
	Content      string `json:"content"` // base64
	Media        string `json:"media"`
	DocumentType string `json:"document_type"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// AnalyzeResponse mirrors the layout-aware analysis service contract,
// including the machine-readable zone lines.
type AnalyzeResponse struct {
	DocumentNumber string  `json:"document_number"`
	IssueDate      string  `json:"issue_date"`
	ExpiryDate     string  `json:"expiry_date"`
	HolderName     string  `json:"holder_name"`
	MRZLine1       string  `json:"mrz_line1"`
	MRZLine2       string  `json:"mrz_line2"`
	Confidence     float64 `json:"confidence"`
}

// OCRResponse mirrors the fast image OCR contract. No MRZ support.
type OCRResponse struct {
	Fields struct {
		DocumentNumber string `json:"document_number"`
		IssueDate      string `json:"issue_date"`
		ExpiryDate     string `json:"expiry_date"`
		HolderName     string `json:"holder_name"`
	} `json:"fields"`
	Confidence float64 `json:"confidence"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/v1/documents/analyze", handleAnalyze)
	http.HandleFunc("/v1/ocr", handleOCR)

	log.Printf("📄 Mock OCR Provider starting on port %s", port)
	log.Printf("📝 API Key: %s", apiKey)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ocr-provider",
		"version": "1.0.0",
	})
}

// testDocuments contains predefined extraction results keyed by the literal
// (decoded) file contents. These "magic" payloads let e2e tests control the
// mock's behavior: upload a file whose bytes equal the key and you get the
// canned result back.
var testDocuments = map[string]func() *AnalyzeResponse{
	"PASSPORT-MATCH": func() *AnalyzeResponse {
		return &AnalyzeResponse{
			DocumentNumber: "U1234567",
			IssueDate:      "2020-05-20",
			ExpiryDate:     "2030-05-20",
			HolderName:     "MARIA SILVA",
			MRZLine1:       "P<IDNSILVA<<MARIA<<<<<<<<<<<<<<<<<<<<<<<<<<<",
			MRZLine2:       "U1234567<6IDN9001011F3005202<<<<<<<<<<<<<<00",
			Confidence:     0.97,
		}
	},
	"PASSPORT-MISMATCH": func() *AnalyzeResponse {
		return &AnalyzeResponse{
			DocumentNumber: "X9999999",
			IssueDate:      "2020-05-20",
			ExpiryDate:     "2030-05-20",
			HolderName:     "MARIA SILVA",
			MRZLine1:       "P<IDNSILVA<<MARIA<<<<<<<<<<<<<<<<<<<<<<<<<<<",
			MRZLine2:       "X9999999<4IDN9001011F3005202<<<<<<<<<<<<<<02",
			Confidence:     0.95,
		}
	},
	"SEAMANS-BOOK-MATCH": func() *AnalyzeResponse {
		return &AnalyzeResponse{
			DocumentNumber: "SB445566",
			IssueDate:      "2022-01-10",
			ExpiryDate:     "2027-01-10",
			HolderName:     "MARIA SILVA",
			Confidence:     0.93,
		}
	},
	"MEDICAL-EXPIRING": func() *AnalyzeResponse {
		return &AnalyzeResponse{
			DocumentNumber: "MED-20240812",
			IssueDate:      "2024-08-12",
			ExpiryDate:     time.Now().AddDate(0, 0, 20).Format("2006-01-02"),
			HolderName:     "MARIA SILVA",
			Confidence:     0.91,
		}
	},
	"LOW-CONFIDENCE": func() *AnalyzeResponse {
		return &AnalyzeResponse{
			DocumentNumber: "U1234567",
			ExpiryDate:     "2030-05-20",
			HolderName:     "M SILVA",
			Confidence:     0.42,
		}
	},
	"BLANK-SCAN": func() *AnalyzeResponse {
		return &AnalyzeResponse{Confidence: 0.05}
	},
}

// failureDocuments trigger error responses, keyed by decoded file contents.
var failureDocuments = map[string]int{
	"UNREADABLE":  http.StatusUnprocessableEntity,
	"SERVER-DOWN": http.StatusInternalServerError,
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("📥 Incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		sendError(w, "Missing Authorization header", http.StatusUnauthorized)
		return
	}
	if auth != "Bearer "+apiKey {
		sendError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		sendError(w, "content is required", http.StatusBadRequest)
		return
	}
	if req.Media != "pdf" && req.Media != "image" {
		sendError(w, "unsupported media type: "+req.Media, http.StatusUnsupportedMediaType)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		sendError(w, "content is not valid base64", http.StatusBadRequest)
		return
	}

	key := strings.TrimSpace(string(data))
	if code, ok := failureDocuments[key]; ok {
		sendError(w, "document could not be processed", code)
		log.Printf("🔍 Triggered failure (test payload): %s", key)
		return
	}

	result := resolveDocument(key, req.DocumentType)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)

	log.Printf("✅ Analysis complete: type=%s number=%s confidence=%.2f", req.DocumentType, result.DocumentNumber, result.Confidence)
}

func handleOCR(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("📥 Incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.Header.Get("X-API-Key") != apiKey {
		sendError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		sendError(w, "expected multipart form data", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		sendError(w, "file part is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sendError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	key := strings.TrimSpace(string(data))
	if code, ok := failureDocuments[key]; ok {
		sendError(w, "document could not be processed", code)
		log.Printf("🔍 Triggered failure (test payload): %s", key)
		return
	}

	full := resolveDocument(key, r.FormValue("document_type"))

	// The fast tier never reads the MRZ.
	var out OCRResponse
	out.Fields.DocumentNumber = full.DocumentNumber
	out.Fields.IssueDate = full.IssueDate
	out.Fields.ExpiryDate = full.ExpiryDate
	out.Fields.HolderName = full.HolderName
	out.Confidence = full.Confidence

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)

	log.Printf("✅ OCR complete: number=%s confidence=%.2f", out.Fields.DocumentNumber, out.Confidence)
}

// resolveDocument maps decoded file contents to a canned result or a
// deterministic generated extraction.
func resolveDocument(key, documentType string) *AnalyzeResponse {
	if testFn, ok := testDocuments[key]; ok {
		log.Printf("🧪 Using test document data for: %s", key)
		return testFn()
	}
	return generateExtraction(key, documentType)
}

// generateExtraction produces deterministic pseudo-random extraction data so
// arbitrary payloads still yield plausible results.
func generateExtraction(contents, documentType string) *AnalyzeResponse {
	hash := sha256.Sum256([]byte(contents))
	hashStr := hex.EncodeToString(hash[:])
	hashInt := int(hash[0])

	firstNames := []string{"MARIA", "JORGE", "ELENA", "PAULO", "ANA", "CARLOS", "SOFIA", "MIGUEL", "LUCIA", "PEDRO"}
	lastNames := []string{"SILVA", "SANTOS", "FERREIRA", "PEREIRA", "OLIVEIRA", "COSTA", "RODRIGUES", "MARTINS", "JESUS", "SOUSA"}
	holderName := firstNames[hashInt%len(firstNames)] + " " + lastNames[(hashInt*3)%len(lastNames)]

	number := strings.ToUpper(hashStr[:8])
	issueYear := time.Now().Year() - 1 - (hashInt % 5)
	issueMonth := 1 + (hashInt % 12)
	issueDay := 1 + (hashInt % 28)
	issue := time.Date(issueYear, time.Month(issueMonth), issueDay, 0, 0, 0, 0, time.UTC)

	validity := 5
	if documentType == "medical" {
		validity = 2
	}
	expiry := issue.AddDate(validity, 0, 0)

	confidence := 0.80 + float64(hashInt%20)/100.0

	return &AnalyzeResponse{
		DocumentNumber: number,
		IssueDate:      issue.Format("2006-01-02"),
		ExpiryDate:     expiry.Format("2006-01-02"),
		HolderName:     holderName,
		Confidence:     confidence,
	}
}

func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
	log.Printf("❌ Error response: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
