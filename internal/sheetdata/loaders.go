package sheetdata

import (
	"context"
	"strconv"

	"github.com/aasthafoundation/careboard/internal/models"
	"github.com/aasthafoundation/careboard/internal/normalize"
	"github.com/aasthafoundation/careboard/internal/workbook"
)

func id(entity string, i int) string {
	return entity + "-" + strconv.Itoa(i+1)
}

func text(row workbook.Row, keys ...string) string {
	return normalize.String(normalize.First(row, keys...))
}

func (l *Loader) Residents(ctx context.Context) []models.Resident {
	out := []models.Resident{}
	for _, row := range l.rows(ctx, "residents", l.files.CEP, sheetResidents) {
		if !normalize.Present(row["NAME"]) {
			continue
		}
		out = append(out, models.Resident{
			ID:              id("resident", len(out)),
			Name:            text(row, "NAME"),
			Address:         text(row, "ADDRESS"),
			Gender:          normalize.Gender(row["GENDER"]),
			DOB:             normalize.DateISO(row["DOB"]),
			AadharNo:        text(row, "AADHAR NO."),
			PanNo:           text(row, "PAN"),
			DateOfAdmission: normalize.DateISO(row["DOA"]),
			DateOfLeaving:   normalize.DateISO(row["DOL"]),
			Remarks:         text(row, "REMARKS"),
		})
	}
	l.done("residents", len(out))
	return out
}

func (l *Loader) Staff(ctx context.Context) []models.Staff {
	out := []models.Staff{}
	for _, row := range l.rows(ctx, "staff", l.files.CEP, sheetStaff) {
		if !normalize.Present(row["Name"]) {
			continue
		}
		status := text(row, "Status")
		if status == "" {
			status = "Active"
		}
		out = append(out, models.Staff{
			ID:                id("staff", len(out)),
			EmployeeID:        text(row, "Employee ID"),
			Name:              text(row, "Name"),
			Gender:            normalize.Gender(row["Gender"]),
			Age:               normalize.Int(row["Age"]),
			Department:        text(row, "Department"),
			Role:              text(row, "Role"),
			DateOfJoining:     normalize.DateISO(row["Date of Joining"]),
			Salary:            normalize.Number(row["Monthly Salary (₹)"]),
			WorkingHours:      text(row, "Working Hours"),
			Status:            status,
			PerformanceRating: normalize.Rating(normalize.Number(row["Performance Rating"])),
		})
	}
	l.done("staff", len(out))
	return out
}

// Caretakers come from a sheet whose real header sits under a title row, so
// the name usually lands under the title column and the age under __EMPTY.
func (l *Loader) Caretakers(ctx context.Context) []models.Caretaker {
	out := []models.Caretaker{}
	for _, row := range l.rows(ctx, "caretakers", l.files.CEP, sheetCaretakers) {
		name := text(row, "AASTHA FOUNDATION ")
		if name == "" {
			name = text(row, "Name")
		}
		if name == "" {
			name = text(row, "Name ")
		}
		age := normalize.Number(normalize.First(row, "__EMPTY", "Age", "Age "))
		if name == "" || age == 0 {
			continue
		}
		out = append(out, models.Caretaker{ID: id("caretaker", len(out)), Name: name, Age: int(age)})
	}
	l.done("caretakers", len(out))
	return out
}

func (l *Loader) Visitors(ctx context.Context) []models.Visitor {
	out := []models.Visitor{}
	for _, row := range l.rows(ctx, "visitors", l.files.CEP, sheetVisitors) {
		if !normalize.Present(row["Name"]) {
			continue
		}
		out = append(out, models.Visitor{
			ID:            id("visitor", len(out)),
			Name:          text(row, "Name"),
			Address:       text(row, "Address ", "Address"),
			ContactNumber: text(row, "Contact number ", "Contact Number"),
			Age:           normalize.Int(row["Age"]),
			Gender:        normalize.Gender(normalize.First(row, "Gender ", "Gender")),
			InTime:        normalize.TimeOfDay(row["In time"]),
			OutTime:       normalize.TimeOfDay(row["Out time"]),
			VisitDate:     normalize.DateISO(row["Date of visit "]),
			Purpose:       text(row, "Purpose of visit ", "Purpose"),
		})
	}
	l.done("visitors", len(out))
	return out
}

// Donations keep any row that names a donor or records an amount.
func (l *Loader) Donations(ctx context.Context) []models.Donation {
	out := []models.Donation{}
	for _, row := range l.rows(ctx, "donations", l.files.Donations, sheetDonations) {
		if !normalize.Present(row["Name"]) && !normalize.Present(row["Donation Amount (₹)"]) {
			continue
		}
		out = append(out, models.Donation{
			ID:            id("donation", len(out)),
			DonorName:     text(row, "Name"),
			Age:           normalize.Int(row["Age"]),
			Amount:        normalize.Number(row["Donation Amount (₹)"]),
			PaymentMethod: text(row, "Payment Method"),
			DonationDate:  normalize.DateISO(row["Donation Date"]),
			City:          text(row, "City"),
		})
	}
	l.done("donations", len(out))
	return out
}

func (l *Loader) Medical(ctx context.Context) []models.MedicalRecord {
	out := []models.MedicalRecord{}
	for _, row := range l.rows(ctx, "medical", l.files.Medical, sheetMedical) {
		if !normalize.Present(row["Name"]) {
			continue
		}
		age, gender := normalize.AgeGender(row["Gender/Age"])
		out = append(out, models.MedicalRecord{
			ID:          id("medical", len(out)),
			PatientName: text(row, "Name"),
			Diagnosis:   text(row, "Diagnosis/Condition"),
			Gender:      gender,
			Age:         age,
			RecordDate:  normalize.DateISO(row["Date"]),
			TimeSlot:    normalize.TimeOfDay(row["Time"]),
		})
	}
	l.done("medical", len(out))
	return out
}
