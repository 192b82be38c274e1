package types

import "strconv"

// Sentinel is substituted for any field whose node is structurally absent,
// so that every row keeps its declared width.
const Sentinel = "--"

// FighterColumns is the fighter table schema: the walker-assigned id
// followed by the 19 fields produced by the fighter parser.
var FighterColumns = []string{
	"fighter_id",
	"name", "nickname", "wins", "losses", "draws",
	"height", "weight", "reach", "stance", "dob",
	"sig_str_pm", "str_acc", "strikes_abs_pm", "sig_str_def",
	"td_avg", "td_acc", "td_def", "sub_avg",
	"url",
}

// FighterRecord is one fighter profile.
type FighterRecord struct {
	// ID is assigned by the listing walker in discovery order. It is only
	// meaningful within a single scrape pass.
	ID int

	Name     string
	Nickname string
	Wins     string
	Losses   string
	Draws    string

	Height string
	Weight string
	Reach  string
	Stance string
	DOB    string

	SigStrPM     string
	StrAcc       string
	StrikesAbsPM string
	SigStrDef    string
	TDAvg        string
	TDAcc        string
	TDDef        string
	SubAvg       string

	URL string
}

// Fields returns the 19 parser-produced values in column order.
func (f FighterRecord) Fields() []string {
	return []string{
		f.Name, f.Nickname, f.Wins, f.Losses, f.Draws,
		f.Height, f.Weight, f.Reach, f.Stance, f.DOB,
		f.SigStrPM, f.StrAcc, f.StrikesAbsPM, f.SigStrDef,
		f.TDAvg, f.TDAcc, f.TDDef, f.SubAvg,
		f.URL,
	}
}

// Row returns the table row: id followed by Fields.
func (f FighterRecord) Row() []string {
	return append([]string{strconv.Itoa(f.ID)}, f.Fields()...)
}

// Corner is one competitor's side of a fight.
type Corner struct {
	Outcome  string
	Nickname string
	URL      string
}

// StatPair is one statistic cell: the red value stacked over the blue value.
type StatPair struct {
	Red  string
	Blue string
}

// FightRecord is one bout with both corners and their statistics.
type FightRecord struct {
	Date     string
	Location string

	Title      string
	Method     string
	Round      string
	Time       string
	TimeFormat string
	Referee    string
	Details    string

	Red  Corner
	Blue Corner

	// Stats holds every totals cell followed by the significant-strikes
	// cells that do not duplicate the totals table.
	Stats []StatPair
}

// Row flattens the record in FightColumns order.
func (f FightRecord) Row() []string {
	row := make([]string, 0, len(fightLeadColumns)+2*len(f.Stats)+2)
	row = append(row,
		f.Date, f.Location,
		f.Title, f.Method, f.Round, f.Time, f.TimeFormat, f.Referee, f.Details,
		f.Red.Outcome, f.Blue.Outcome, f.Red.Nickname, f.Blue.Nickname,
	)
	for _, s := range f.Stats {
		row = append(row, s.Red, s.Blue)
	}
	return append(row, f.Red.URL, f.Blue.URL)
}

var fightLeadColumns = []string{
	"date", "location",
	"title", "method", "round", "time", "time_format", "ref", "details",
	"red_outcome", "blue_outcome", "red_nickname", "blue_nickname",
}

// TotalsStatNames labels the cells of the totals table, in page order.
var TotalsStatNames = []string{
	"fighter", "kd", "sig_str", "sig_str_perc", "total_str",
	"td", "td_perc", "sub_att", "rev", "ctrl",
}

// StrikesStatNames labels the significant-strikes cells kept after the
// duplicated leading cells are skipped.
var StrikesStatNames = []string{
	"sig_str_head", "sig_str_body", "sig_str_leg",
	"sig_str_distance", "sig_str_clinch", "sig_str_ground",
}

// FightColumns is the fight table schema for the current page template.
var FightColumns = buildFightColumns(TotalsStatNames, StrikesStatNames)

func buildFightColumns(totals, strikes []string) []string {
	cols := append([]string(nil), fightLeadColumns...)
	for _, names := range [][]string{totals, strikes} {
		for _, name := range names {
			cols = append(cols, "red_"+name, "blue_"+name)
		}
	}
	return append(cols, "red_fighter_url", "blue_fighter_url")
}

// RankingColumns is the rankings table schema.
var RankingColumns = []string{"fighter", "ranking", "weight_class"}

// RankingRecord is one (fighter, weight class) ranking entry.
type RankingRecord struct {
	Fighter     string
	Rank        string
	WeightClass string
}

// Row returns the table row.
func (r RankingRecord) Row() []string {
	return []string{r.Fighter, r.Rank, r.WeightClass}
}
