package domain

// Intent 意图标签
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentFeeQuery    Intent = "fee_query"
	IntentAdmission   Intent = "admission"
	IntentScholarship Intent = "scholarship"
	IntentTimetable   Intent = "timetable"
	IntentExam        Intent = "exam"
	IntentDocument    Intent = "document"
	IntentContact     Intent = "contact"
	IntentHostel      Intent = "hostel"
	IntentLibrary     Intent = "library"
	IntentGoodbye     Intent = "goodbye"
	IntentGeneral     Intent = "general"
	IntentError       Intent = "error"
)

// IntentResult 单条消息的意图识别结果，按消息实时计算，不持久化
type IntentResult struct {
	Intent          Intent
	Confidence      float64
	MatchedKeywords []string
}

// Entities 从消息中抽取的结构化实体。
// 显式字段代替任意键值包；零值表示未抽取到。
type Entities struct {
	Year         string `json:"year,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Semester     int    `json:"semester,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	Department   string `json:"department,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// IsEmpty 判断是否没有任何实体
func (e Entities) IsEmpty() bool {
	return e == Entities{}
}

// Merge 按字段合并新抽取的实体，新值覆盖旧值，零值不覆盖
func (e *Entities) Merge(n Entities) {
	if n.Year != "" {
		e.Year = n.Year
	}
	if n.Amount != "" {
		e.Amount = n.Amount
	}
	if n.Semester != 0 {
		e.Semester = n.Semester
	}
	if n.AcademicYear != "" {
		e.AcademicYear = n.AcademicYear
	}
	if n.Department != "" {
		e.Department = n.Department
	}
	if n.Email != "" {
		e.Email = n.Email
	}
	if n.Phone != "" {
		e.Phone = n.Phone
	}
}
