// Package messages kullanıcıya gösterilecek metinleri dil bazında tutar.
// Çekirdek paketler yalnızca kod döndürür; metne çevirme burada yapılır.
package messages

import "strings"

const (
	LangTR = "tr"
	LangEN = "en"
)

// Catalog translates codes for a language.
type Catalog interface {
	T(lang, code string) string
	Default() string
}

type staticCatalog struct {
	fallback string
	tables   map[string]map[string]string
}

// New returns the built-in tr/en catalog with fallback as default language.
func New(fallback string) Catalog {
	if fallback != LangEN {
		fallback = LangTR
	}
	return &staticCatalog{
		fallback: fallback,
		tables: map[string]map[string]string{
			LangTR: tr,
			LangEN: en,
		},
	}
}

func (c *staticCatalog) Default() string { return c.fallback }

// T falls back to the default language, then to the code itself.
func (c *staticCatalog) T(lang, code string) string {
	if table, ok := c.tables[lang]; ok {
		if msg, ok := table[code]; ok {
			return msg
		}
	}
	if msg, ok := c.tables[c.fallback][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage picks tr or en from an Accept-Language header.
func DetectLanguage(header, fallback string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(tag, "-", 2)[0]
		if base == LangTR || base == LangEN {
			return base
		}
	}
	if fallback == LangEN {
		return LangEN
	}
	return LangTR
}

var tr = map[string]string{
	"required":             "Zorunlu alan",
	"invalid_number":       "Geçersiz sayı",
	"negative":             "Negatif olamaz",
	"must_be_positive":     "Sıfırdan büyük olmalı",
	"out_of_range":         "İzin verilen aralığın dışında",
	"unsupported_currency": "Desteklenmeyen para birimi",
	"not_applicable":       "Bu işlem yönü için kullanılamaz",
	"invalid_date":         "Tarih formatı 'YYYY-MM-DD' olmalı",
	"invalid_direction":    "Yön 'income' veya 'expense' olmalı",
	"invalid_period":       "Dönem 'YYYY-MM' veya 'YYYY-Qn' olmalı",
	"invalid_view_mode":    "Görünüm 'total', 'official' veya 'unofficial' olmalı",
	"not_found":            "Kayıt bulunamadı",
	"invalid_code":         "Kod küçük harf, rakam ve '_' içermeli",
	"invalid_role":         "Rol 'admin' veya 'accountant' olmalı",
	"too_short":            "Çok kısa",
	"invalid_format":       "Geçersiz format",

	"validation_failed": "Girilen bilgiler geçersiz",
	"rate_exists":       "Bu tarih için kur zaten kayıtlı",
	"conflict":          "Kayıt zaten mevcut",
	"upstream":          "Kur kaynağına ulaşılamadı, kayıtlı kurlar değiştirilmedi",
	"query_failed":      "Veritabanı işlemi başarısız",
	"internal":          "Beklenmeyen sunucu hatası",
	"uncategorized":     "Kategorisiz",
}

var en = map[string]string{
	"required":             "Required",
	"invalid_number":       "Invalid number",
	"negative":             "Must not be negative",
	"must_be_positive":     "Must be greater than zero",
	"out_of_range":         "Out of range",
	"unsupported_currency": "Unsupported currency",
	"not_applicable":       "Not applicable for this direction",
	"invalid_date":         "Date must be 'YYYY-MM-DD'",
	"invalid_direction":    "Direction must be 'income' or 'expense'",
	"invalid_period":       "Period must be 'YYYY-MM' or 'YYYY-Qn'",
	"invalid_view_mode":    "View mode must be 'total', 'official' or 'unofficial'",
	"not_found":            "Record not found",
	"invalid_code":         "Code may contain lowercase letters, digits and '_'",
	"invalid_role":         "Role must be 'admin' or 'accountant'",
	"too_short":            "Too short",
	"invalid_format":       "Invalid format",

	"validation_failed": "Invalid input",
	"rate_exists":       "A rate is already recorded for this date",
	"conflict":          "Record already exists",
	"upstream":          "Rate source unavailable, stored rates were left untouched",
	"query_failed":      "Database operation failed",
	"internal":          "Unexpected server error",
	"uncategorized":     "Uncategorized",
}
