package service

// CatalogCategory is a category offered as a checkbox on the program form.
type CatalogCategory struct {
	Key       string `json:"key"`
	Level     int    `json:"level"`
	Name      string `json:"name"`
	ParentKey string `json:"parent_key,omitempty"`
	// DefaultCredit is the minimum credit prefilled for new plans. Zero means none.
	DefaultCredit int `json:"default_credit,omitempty"`
}

// categoryCatalog lists the checkbox categories grouped by level.
var categoryCatalog = []CatalogCategory{
	{Key: "general_education", Level: 1, Name: "หมวดวิชาศึกษาทั่วไป", DefaultCredit: 30},
	{Key: "specific_subject", Level: 1, Name: "หมวดวิชาเฉพาะ", DefaultCredit: 84},
	{Key: "free_elective", Level: 1, Name: "หมวดวิชาเลือกเสรี", DefaultCredit: 6},

	{Key: "happy_subject", Level: 2, Name: "กลุ่มสาระอยู่ดีมีสุข", ParentKey: "general_education"},
	{Key: "entrepreneurship_subject", Level: 2, Name: "กลุ่มสาระศาสตร์แห่งผู้ประกอบการ", ParentKey: "general_education"},
	{Key: "language_subject", Level: 2, Name: "กลุ่มสาระภาษากับการสื่อสาร", ParentKey: "general_education"},
	{Key: "people_subject", Level: 2, Name: "กลุ่มสาระพลเมืองไทยและพลเมืองโลก", ParentKey: "general_education"},
	{Key: "aesthetics_subject", Level: 2, Name: "กลุ่มสาระสุนทรียศาสตร์", ParentKey: "general_education"},
	{Key: "core_subject", Level: 2, Name: "วิชาแกน", ParentKey: "specific_subject"},
	{Key: "specialized_subject", Level: 2, Name: "วิชาเฉพาะด้าน", ParentKey: "specific_subject"},
	{Key: "elective_subject", Level: 2, Name: "วิชาเลือก", ParentKey: "specific_subject"},

	{Key: "hardware_architecture", Level: 3, Name: "กลุ่มฮาร์ดแวร์และสถาปัตยกรรมคอมพิวเตอร์", ParentKey: "specialized_subject"},
	{Key: "system_infrastructure", Level: 3, Name: "กลุ่มโครงสร้างพื้นฐานของระบบ", ParentKey: "specialized_subject"},
	{Key: "software_technology", Level: 3, Name: "กลุ่มเทคโนโลยีและวิธีการทางซอฟต์แวร์", ParentKey: "specialized_subject"},
	{Key: "applied_technology", Level: 3, Name: "กลุ่มเทคโนโลยีเพื่องานประยุกต์", ParentKey: "specialized_subject"},
	{Key: "independent_study", Level: 3, Name: "กลุ่มการค้นคว้าอิสระ", ParentKey: "specialized_subject"},
}

// CategoryCatalog returns a copy of the checkbox catalog.
func CategoryCatalog() []CatalogCategory {
	out := make([]CatalogCategory, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// catalogEntry looks a catalog category up by key.
func catalogEntry(key string) (CatalogCategory, bool) {
	for _, entry := range categoryCatalog {
		if entry.Key == key {
			return entry, true
		}
	}
	return CatalogCategory{}, false
}

// catalogDefaultCredits returns the default minimum credit keyed by (level, display name).
func catalogDefaultCredits() map[catalogNameKey]int {
	out := make(map[catalogNameKey]int)
	for _, entry := range categoryCatalog {
		if entry.DefaultCredit > 0 {
			out[catalogNameKey{entry.Level, entry.Name}] = entry.DefaultCredit
		}
	}
	return out
}

type catalogNameKey struct {
	level int
	name  string
}
