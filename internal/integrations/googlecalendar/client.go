package googlecalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/oryxestates/viewing-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент Google Calendar API.
// Авторизация как у агента: OAuth-токен хранится в calendar_connections
// (его пишет OAuth-поток внешней системы), клиент только обновляет его
// через стандартный TokenSource.
type Client struct {
	oauthConfig *oauth2.Config
	timeout     time.Duration
	log         Logger
}

// NewClient создает новый экземпляр клиента Google Calendar
func NewClient(clientID, clientSecret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				calendar.CalendarScope,
				calendar.CalendarEventsScope,
			},
		},
		timeout: timeout,
		log:     log,
	}
}

// service создает calendar.Service от имени агента по его сохраненному токену
func (c *Client) service(ctx context.Context, conn *domain.CalendarConnection) (*calendar.Service, error) {
	if conn == nil || !conn.Connected || len(conn.TokenJSON) == 0 {
		return nil, ErrNotConnected
	}

	var token oauth2.Token
	if err := json.Unmarshal(conn.TokenJSON, &token); err != nil {
		return nil, fmt.Errorf("%w: failed to decode stored token: %v", ErrInvalidResponse, err)
	}

	ts := c.oauthConfig.TokenSource(ctx, &token)

	srv, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrCalendarSync, err)
	}
	return srv, nil
}

// GetBusyIntervals получает занятые интервалы агента через FreeBusy запрос.
// Ответ внешнего API декодируется строго: интервалы с некорректными
// метками времени отбрасываются с предупреждением в логе.
func (c *Client) GetBusyIntervals(ctx context.Context, conn *domain.CalendarConnection, dateRange domain.TimeInterval) ([]domain.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, conn)
	if err != nil {
		return nil, err
	}

	calendarID := conn.ExternalCalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	resp, err := srv.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: dateRange.Start.Format(time.RFC3339),
		TimeMax: dateRange.End.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: freebusy query: %v", ErrCalendarSync, err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: freebusy response missing calendar %q", ErrInvalidResponse, calendarID)
	}

	busy := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			c.log.Warn("GetBusyIntervals: skipping busy period with invalid start %q: %v", period.Start, err)
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			c.log.Warn("GetBusyIntervals: skipping busy period with invalid end %q: %v", period.End, err)
			continue
		}

		interval, err := domain.NewTimeInterval(start, end)
		if err != nil {
			c.log.Warn("GetBusyIntervals: skipping degenerate busy period [%s, %s)", period.Start, period.End)
			continue
		}

		busy = append(busy, domain.BusyInterval{
			TimeInterval: interval,
			Source:       domain.BusySourceExternalCalendar,
		})
	}

	return busy, nil
}

// CreateEvent создает событие в календаре агента для просмотра.
// Для виртуальных просмотров запрашивается Google Meet конференция,
// ссылка на нее возвращается в EventRef.
func (c *Client) CreateEvent(ctx context.Context, conn *domain.CalendarConnection, v *domain.Viewing) (*domain.CalendarEventRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, conn)
	if err != nil {
		return nil, err
	}

	calendarID := conn.ExternalCalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Property Viewing - %s", v.PropertyTitle),
		Description: eventDescription(v),
		Start: &calendar.EventDateTime{
			DateTime: v.ScheduledStart.Format(time.RFC3339),
			TimeZone: domain.DefaultTimezone,
		},
		End: &calendar.EventDateTime{
			DateTime: v.ScheduledEnd.Format(time.RFC3339),
			TimeZone: domain.DefaultTimezone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if v.PropertyAddress != nil {
		event.Location = *v.PropertyAddress
	}
	if v.ApplicantEmail != nil && *v.ApplicantEmail != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: *v.ApplicantEmail}}
	}

	if v.ViewingType == domain.ViewingTypeVirtual {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("viewing-%d-%d", v.ID, v.ScheduledStart.Unix()),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}

	call := srv.Events.Insert(calendarID, event).Context(ctx)
	if event.ConferenceData != nil {
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: insert event: %v", ErrCalendarSync, err)
	}
	if created.Id == "" {
		return nil, fmt.Errorf("%w: insert event returned empty id", ErrInvalidResponse)
	}

	ref := &domain.CalendarEventRef{EventID: created.Id}
	if created.HtmlLink != "" {
		link := created.HtmlLink
		ref.EventLink = &link
	}
	if meet := meetingLink(created); meet != "" {
		ref.MeetingLink = &meet
	}

	c.log.Info("CreateEvent: created calendar event id=%s for viewing id=%d", created.Id, v.ID)
	return ref, nil
}

// CancelEvent удаляет событие из календаря агента.
// Уже удаленное событие (404/410) считается успешной отменой.
func (c *Client) CancelEvent(ctx context.Context, conn *domain.CalendarConnection, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, conn)
	if err != nil {
		return err
	}

	calendarID := conn.ExternalCalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	err = srv.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			c.log.Warn("CancelEvent: event id=%s already gone", eventID)
			return nil
		}
		return fmt.Errorf("%w: delete event id=%s: %v", ErrCalendarSync, eventID, err)
	}

	c.log.Info("CancelEvent: cancelled calendar event id=%s", eventID)
	return nil
}

func eventDescription(v *domain.Viewing) string {
	desc := fmt.Sprintf("Property Viewing\n\nProperty: %s\n", v.PropertyTitle)
	if v.PropertyAddress != nil {
		desc += fmt.Sprintf("Address: %s\n", *v.PropertyAddress)
	}
	desc += fmt.Sprintf("Applicant: %s\n", v.ApplicantName)
	if v.ApplicantPhone != nil {
		desc += fmt.Sprintf("Phone: %s\n", *v.ApplicantPhone)
	}
	if v.ApplicantEmail != nil {
		desc += fmt.Sprintf("Email: %s\n", *v.ApplicantEmail)
	}
	desc += fmt.Sprintf("Type: %s", v.ViewingType)
	return desc
}

func meetingLink(event *calendar.Event) string {
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData == nil {
		return ""
	}
	for _, ep := range event.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" && ep.Uri != "" {
			return ep.Uri
		}
	}
	return ""
}
