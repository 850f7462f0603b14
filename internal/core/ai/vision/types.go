package vision

// AnnotateRequest images:annotate 請求
type AnnotateRequest struct {
	Requests []AnnotateImageRequest `json:"requests"`
}

// AnnotateImageRequest 單張圖片的請求
type AnnotateImageRequest struct {
	Image    Image     `json:"image"`
	Features []Feature `json:"features"`
}

// Image base64 圖片內容
type Image struct {
	Content string `json:"content"`
}

// Feature 要求的偵測功能
type Feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

// 偵測功能類型
const (
	FeatureLabelDetection     = "LABEL_DETECTION"
	FeatureObjectLocalization = "OBJECT_LOCALIZATION"
	FeatureWebDetection       = "WEB_DETECTION"
)

// AnnotateResponse images:annotate 回應
type AnnotateResponse struct {
	Responses []AnnotateImageResponse `json:"responses"`
}

// AnnotateImageResponse 單張圖片的辨識結果，缺少的分組視為空
type AnnotateImageResponse struct {
	LabelAnnotations           []LabelAnnotation           `json:"labelAnnotations,omitempty"`
	LocalizedObjectAnnotations []LocalizedObjectAnnotation `json:"localizedObjectAnnotations,omitempty"`
	WebDetection               *WebDetection               `json:"webDetection,omitempty"`
	Error                      *Status                     `json:"error,omitempty"`
}

// LabelAnnotation 標籤
type LabelAnnotation struct {
	Mid         string  `json:"mid,omitempty"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Topicality  float64 `json:"topicality,omitempty"`
}

// LocalizedObjectAnnotation 物件定位
type LocalizedObjectAnnotation struct {
	Mid   string  `json:"mid,omitempty"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// WebDetection 網路偵測
type WebDetection struct {
	WebEntities     []WebEntity     `json:"webEntities,omitempty"`
	BestGuessLabels []BestGuessLabel `json:"bestGuessLabels,omitempty"`
}

// WebEntity 網路實體
type WebEntity struct {
	EntityID    string  `json:"entityId,omitempty"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// BestGuessLabel 最佳猜測，沒有分數
type BestGuessLabel struct {
	Label        string `json:"label"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Status 單張圖片的錯誤
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
