package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	Extract  PromptPair `yaml:"extract"`
	Classify PromptPair `yaml:"classify"`
	Correct  PromptPair `yaml:"correct"`
}

// PromptPair is a system prompt and a user prompt template.
// Templates use {{message}} and, for corrections, {{current}}.
type PromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// LoadPromptsConfig loads prompts configuration from YAML file
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/tevkil/prompts.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		fmt.Println("[Config] No prompts.yaml found, using defaults")
		return DefaultPromptsConfig(), nil
	}

	fmt.Printf("[Config] Loading prompts from: %s\n", loadedPath)

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse prompts.yaml: %w", err)
	}

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	fill := func(dst *PromptPair, def PromptPair) {
		if dst.System == "" {
			dst.System = def.System
		}
		if dst.User == "" {
			dst.User = def.User
		}
	}
	fill(&c.Extract, defaults.Extract)
	fill(&c.Classify, defaults.Classify)
	fill(&c.Correct, defaults.Correct)
}

// DefaultPromptsConfig returns the default prompts configuration
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Extract: PromptPair{
			System: "Sen bir Türk hukuk platformu için mesaj analiz asistanısın. Her zaman JSON formatında yanıt verirsin.",
			User: `Sen bir Türk avukat platformu için ilan mesajlarını analiz eden yapay zeka asistanısın.

Aşağıdaki mesajı analiz et ve ilan bilgilerini çıkar:

Mesaj: "{{message}}"

KURALLAR:
1. Başlık kısa ve öz olmalı (max 100 karakter)
2. Şehir adını bul (İstanbul, Ankara, İzmir, vs.)
3. Mahkeme adını tam bul
4. Fiyat/ücret bilgisini bul (TL cinsinden, sadece sayı)
5. Açıklama: Tarih, saat ve tüm önemli detayları içermeli

JSON formatında yanıt ver:
{
    "title": "İlan başlığı",
    "city": "şehir",
    "courthouse": "mahkeme adı",
    "price": fiyat,
    "description": "detaylı açıklama"
}

Eğer bir bilgi bulunamazsa null dön.`,
		},
		Classify: PromptPair{
			System: "Sen intent detection asistanısın. Her zaman JSON formatında yanıt verirsin.",
			User: `Kullanıcı kendisine gösterilen ilan önizlemesine yanıt veriyor. Mesajın amacını belirle.

Mesaj: "{{message}}"

OLASI AMAÇLAR:
- approve: Onaylıyor, kabul ediyor (tamamdır, tamam, evet, paylaş, onayla, vs.)
- reject: Reddediyor, iptal ediyor (hayır, iptal, vazgeç, istemiyorum, vs.)
- correction: Düzeltme yapıyor (şehir X olmalı, fiyat Y olsun, vs.)
- question: Soru soruyor
- unknown: Belirsiz

JSON formatında yanıt ver:
{
    "intent": "approve/reject/correction/question/unknown",
    "confidence": 0.0-1.0 arası güven skoru,
    "reasoning": "kısa açıklama"
}`,
		},
		Correct: PromptPair{
			System: "Sen düzeltme analiz asistanısın. Her zaman JSON formatında yanıt verirsin.",
			User: `Kullanıcı bir ilan bilgisini düzeltmek istiyor.

Mevcut ilan bilgileri:
{{current}}

Kullanıcının düzeltme mesajı: "{{message}}"

Hangi alanları düzeltmek istiyor? Sadece değiştirilen alanları JSON olarak dön:

{
    "title": "yeni başlık" (varsa),
    "city": "yeni şehir" (varsa),
    "courthouse": "yeni mahkeme" (varsa),
    "price": yeni fiyat (varsa),
    "description": "yeni açıklama" (varsa)
}

Düzeltme yoksa boş obje dön: {}`,
		},
	}
}
