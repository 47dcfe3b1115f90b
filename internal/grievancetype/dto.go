package grievancetype

type TypesResponse struct {
	GrievanceTypes []Type `json:"grievance_types"`
}
