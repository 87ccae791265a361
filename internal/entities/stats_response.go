package entities

type LotStats struct {
	Capacity int `json:"capacity"`
	Occupied int `json:"occupied"`
}

type StatsResponse struct {
	TotalReservations int                 `json:"total_reservations"`
	CheckedIn         int                 `json:"checked_in"`
	CheckedOut        int                 `json:"checked_out"`
	Pending           int                 `json:"pending"`
	TodayCheckIns     int                 `json:"today_check_ins"`
	TodayCheckOuts    int                 `json:"today_check_outs"`
	LotStats          map[string]LotStats `json:"lot_stats"`
}
