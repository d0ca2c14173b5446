package models

// Resident is one row of the residents register.
type Resident struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	Gender          string `json:"gender"`
	DOB             string `json:"dob"`
	AadharNo        string `json:"aadhar_no"`
	PanNo           string `json:"pan_no"`
	DateOfAdmission string `json:"date_of_admission"`
	DateOfLeaving   string `json:"date_of_leaving,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

type Staff struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Name              string  `json:"name"`
	Gender            string  `json:"gender"`
	Age               int     `json:"age"`
	Department        string  `json:"department"`
	Role              string  `json:"role"`
	DateOfJoining     string  `json:"date_of_joining"`
	Salary            float64 `json:"salary"`
	WorkingHours      string  `json:"working_hours"`
	Status            string  `json:"status"`
	PerformanceRating string  `json:"performance_rating"`
}

type Caretaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Visitor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	InTime        string `json:"in_time"`
	OutTime       string `json:"out_time"`
	VisitDate     string `json:"visit_date"`
	Purpose       string `json:"purpose"`
}

type Donation struct {
	ID            string  `json:"id"`
	DonorName     string  `json:"donor_name"`
	Age           int     `json:"age"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	DonationDate  string  `json:"donation_date"`
	City          string  `json:"city"`
}

// MedicalRecord.Age is nil when the Gender/Age cell carries no number.
type MedicalRecord struct {
	ID          string `json:"id"`
	PatientName string `json:"patient_name"`
	Diagnosis   string `json:"diagnosis"`
	Gender      string `json:"gender"`
	Age         *int   `json:"age"`
	RecordDate  string `json:"record_date"`
	TimeSlot    string `json:"time_slot"`
}
