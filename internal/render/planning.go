package render

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

type TimelineEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type CalendarDay struct {
	Date   string   `json:"date"`
	Events []string `json:"events"`
}

type KanbanLane struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

type Marker struct {
	Lat   any    `json:"lat"`
	Lng   any    `json:"lng"`
	Label string `json:"label"`
	Value any    `json:"value,omitempty"`
}

// renderTimeline orders events by their date string, which sorts correctly
// for the ISO dates the schema editor produces.
func renderTimeline(c models.Component, rows []map[string]any) *VNode {
	dateKey := TimelineDateKeys.Pick(rows[0])
	titleKey := TimelineTitleKeys.Pick(rows[0])
	descKey := TimelineDescKeys.Pick(rows[0])

	events := make([]TimelineEvent, 0, len(rows))
	for _, row := range rows {
		ev := TimelineEvent{Date: label(row[dateKey]), Title: label(row[titleKey])}
		if d, ok := row[descKey]; ok {
			ev.Description = label(d)
		}
		events = append(events, ev)
	}
	slices.SortStableFunc(events, func(a, b TimelineEvent) int { return strings.Compare(a.Date, b.Date) })
	if configString(c.Config, "order", "asc") == "desc" {
		slices.Reverse(events)
	}
	return El(TagTimeline, Props{
		"dateKey":     dateKey,
		"titleKey":    titleKey,
		"events":      events,
		"orientation": configString(c.Config, "orientation", "vertical"),
		"showDates":   configBool(c.Config, "showDates", true),
	})
}

func renderCalendar(c models.Component, rows []map[string]any) *VNode {
	dateKey := CalendarDateKeys.Pick(rows[0])
	titleKey := CalendarTitleKeys.Pick(rows[0])

	byDate := map[string]int{}
	var days []CalendarDay
	for _, row := range rows {
		d := label(row[dateKey])
		// datetimes group under their day
		if len(d) > 10 && d[10] == 'T' {
			d = d[:10]
		}
		i, ok := byDate[d]
		if !ok {
			i = len(days)
			byDate[d] = i
			days = append(days, CalendarDay{Date: d})
		}
		days[i].Events = append(days[i].Events, label(row[titleKey]))
	}
	slices.SortFunc(days, func(a, b CalendarDay) int { return strings.Compare(a.Date, b.Date) })
	return El(TagCalendar, Props{
		"dateKey":      dateKey,
		"titleKey":     titleKey,
		"days":         days,
		"view":         configString(c.Config, "view", "month"),
		"weekStartsOn": configFloat(c.Config, "weekStartsOn", 0),
	})
}

// renderKanban places cards in the configured columns, then in any extra
// column values the records use, in first-seen order.
func renderKanban(c models.Component, rows []map[string]any) *VNode {
	colKey := KanbanColumnKeys.Pick(rows[0])
	titleKey := KanbanTitleKeys.Pick(rows[0])

	var lanes []KanbanLane
	index := map[string]int{}
	addLane := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(lanes)
		lanes = append(lanes, KanbanLane{Name: name, Cards: []string{}})
		return len(lanes) - 1
	}
	if cols, ok := c.Config["columns"].([]any); ok {
		for _, col := range cols {
			addLane(label(col))
		}
	}
	for _, row := range rows {
		i := addLane(label(row[colKey]))
		lanes[i].Cards = append(lanes[i].Cards, label(row[titleKey]))
	}
	return El(TagKanban, Props{
		"columnKey": colKey,
		"titleKey":  titleKey,
		"lanes":     lanes,
	})
}

func renderMap(c models.Component, rows []map[string]any) *VNode {
	latKey := MapLatKeys.Pick(rows[0])
	lngKey := MapLngKeys.Pick(rows[0])
	labelKey := MapLabelKeys.Pick(rows[0])
	valueKey := MapValueKeys.Pick(rows[0])

	markers := make([]Marker, 0, len(rows))
	places := mapset.NewThreadUnsafeSet[string]()
	for _, row := range rows {
		m := Marker{Lat: number(row[latKey]), Lng: number(row[lngKey]), Label: label(row[labelKey]), Value: number(row[valueKey])}
		places.Add(m.Label)
		markers = append(markers, m)
	}
	return El(TagMap, Props{
		"latKey":  latKey,
		"lngKey":  lngKey,
		"markers": markers,
		"places":  places.Cardinality(),
		"zoom":    configFloat(c.Config, "zoom", 2),
		"center":  c.Config["center"],
	})
}
