package controller

import (
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	testclock "k8s.io/utils/clock/testing"

	"github.com/goliatone/go-contactform/pkg/fixtures"
	"github.com/goliatone/go-contactform/pkg/model"
)

func cacForm() model.FormModel {
	return model.FormModel{
		ID:    "cac-tat",
		Title: "CAC TAT",
		Fields: []model.Field{
			{Name: "firstName", Kind: model.FieldKindText},
			{Name: "lastName", Kind: model.FieldKindText},
			{Name: "email", Kind: model.FieldKindEmail},
			{Name: "phone", Kind: model.FieldKindTel},
			{Name: "productDescription", Kind: model.FieldKindTextArea, ElementID: "open-text-area"},
		},
		Groups: []model.Group{
			{Name: "product", Kind: model.GroupKindSelect, Options: []model.Option{
				{Value: "", Label: "Selecione", Disabled: true},
				{Value: "blog", Label: "Blog"},
				{Value: "cursos", Label: "Cursos"},
				{Value: "mentoria", Label: "Mentoria"},
				{Value: "youtube", Label: "YouTube"},
			}},
			{Name: "attendanceType", Kind: model.GroupKindRadio, Options: []model.Option{
				{Value: "ajuda", Label: "Ajuda"},
				{Value: "elogio", Label: "Elogio"},
				{Value: "feedback", Label: "Feedback"},
			}},
			{Name: "contactPreference", Kind: model.GroupKindCheckbox, Options: []model.Option{
				{Value: "email", Label: "E-mail"},
				{Value: "phone", Label: "Telefone"},
			}},
		},
		Required: []string{"firstName", "lastName", "email", "productDescription"},
		Toggles:  []model.Toggle{{Group: "contactPreference", Option: "phone", Field: "phone"}},
	}
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *testclock.FakeClock) {
	t.Helper()
	fc := testclock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ctrl, err := New(cacForm(), append([]Option{WithClock(fc), WithIDGenerator(func() string { return "sub-1" })}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl, fc
}

func fillValid(ctrl *Controller) {
	ctrl.SetField("firstName", "Walmyr")
	ctrl.SetField("lastName", "Filho")
	ctrl.SetField("email", "walmyr@example.com")
	ctrl.SetField("productDescription", "Teste.")
}

func TestNewRejectsInvalidForm(t *testing.T) {
	form := cacForm()
	form.Required = append(form.Required, "missing")
	if _, err := New(form); err == nil {
		t.Fatal("expected error for undeclared required field")
	}
}

func TestSubmitEmptyFormIsInvalid(t *testing.T) {
	ctrl, _ := newTestController(t)

	result := ctrl.Submit()

	want := SubmissionResult{
		Outcome: Invalid,
		Banner:  model.BannerError,
		Issues: []Issue{
			{Field: "firstName", Reason: ReasonMissing},
			{Field: "lastName", Reason: ReasonMissing},
			{Field: "email", Reason: ReasonMissing},
			{Field: "productDescription", Reason: ReasonMissing},
		},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if !ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected error banner visible")
	}
	if ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("expected success banner hidden")
	}
}

func TestSubmitValidFormIsAccepted(t *testing.T) {
	ctrl, fc := newTestController(t)
	fillValid(ctrl)

	result := ctrl.Submit()

	if diff := cmp.Diff(SubmissionResult{Outcome: Accepted, Banner: model.BannerSuccess, ID: "sub-1"}, result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	success := ctrl.Banner(model.BannerSuccess)
	if !success.Visible {
		t.Fatal("expected success banner visible")
	}
	if want := fc.Now().Add(DefaultBannerDelay); !success.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, success.ExpiresAt)
	}
	if ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected error banner hidden")
	}
	if got := ctrl.Value("firstName"); got != "Walmyr" {
		t.Fatalf("submit must not clear values, got %q", got)
	}
}

func TestSubmitEmailFormat(t *testing.T) {
	tests := []struct {
		email string
		want  Outcome
	}{
		{email: "a@b.com", want: Accepted},
		{email: "walmyr@exemplo.com.br", want: Accepted},
		{email: "a@b", want: Invalid},
		{email: "walmyr@exemplo,com", want: Invalid},
		{email: "wal myr@exemplo.com", want: Invalid},
		{email: "@exemplo.com", want: Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			ctrl, _ := newTestController(t)
			fillValid(ctrl)
			ctrl.SetField("email", tt.email)

			result := ctrl.Submit()
			if result.Outcome != tt.want {
				t.Fatalf("expected %s, got %s (%+v)", tt.want, result.Outcome, result.Issues)
			}
			if tt.want == Invalid {
				if diff := cmp.Diff([]Issue{{Field: "email", Reason: ReasonMalformed}}, result.Issues); diff != "" {
					t.Fatalf("issues mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestPhoneKeepsDigitsOnly(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.SetField("phone", "abcdefghij")
	if got := ctrl.Value("phone"); got != "" {
		t.Fatalf("expected empty phone, got %q", got)
	}

	ctrl.SetField("phone", "12a3")
	if got := ctrl.Value("phone"); got != "123" {
		t.Fatalf("expected 123, got %q", got)
	}

	ctrl.TypeField("phone", "4x5")
	if got := ctrl.Value("phone"); got != "12345" {
		t.Fatalf("expected 12345, got %q", got)
	}

	ctrl.SetField("firstName", "abc123")
	if got := ctrl.Value("firstName"); got != "abc123" {
		t.Fatalf("text fields keep their input, got %q", got)
	}
}

func TestUnknownFieldIsIgnored(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.SetField("nickname", "x")
	ctrl.SetRequired("nickname", true)

	if got := ctrl.Value("nickname"); got != "" {
		t.Fatalf("expected unknown field to be ignored, got %q", got)
	}
	if ctrl.IsRequired("nickname") {
		t.Fatal("unknown field must not join the required set")
	}
}

func TestClearField(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.SetField("firstName", "Walmyr")
	ctrl.ClearField("firstName")
	ctrl.ClearField("firstName")

	if got := ctrl.Value("firstName"); got != "" {
		t.Fatalf("expected cleared value, got %q", got)
	}
}

func TestPhoneToggleControlsRequirement(t *testing.T) {
	ctrl, _ := newTestController(t)
	fillValid(ctrl)

	if err := ctrl.Check("contactPreference", "phone"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !ctrl.IsRequired("phone") {
		t.Fatal("expected phone to be required after checking the toggle")
	}
	result := ctrl.Submit()
	if diff := cmp.Diff([]Issue{{Field: "phone", Reason: ReasonMissing}}, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	ctrl.SetField("phone", "11987654321")
	if got := ctrl.Submit(); got.Outcome != Accepted {
		t.Fatalf("expected accepted with phone filled, got %+v", got)
	}

	if err := ctrl.Uncheck("contactPreference", "phone"); err != nil {
		t.Fatalf("Uncheck: %v", err)
	}
	if ctrl.IsRequired("phone") {
		t.Fatal("expected phone to leave the required set")
	}
	ctrl.ClearField("phone")
	if got := ctrl.Submit(); got.Outcome != Accepted {
		t.Fatalf("expected accepted without phone, got %+v", got)
	}
}

func TestSetRequiredTwiceRestoresBaseSet(t *testing.T) {
	ctrl, _ := newTestController(t)
	base := ctrl.Required()

	ctrl.SetRequired("phone", true)
	ctrl.SetRequired("phone", false)

	if diff := cmp.Diff(base, ctrl.Required()); diff != "" {
		t.Fatalf("required set mismatch (-want +got):\n%s", diff)
	}
}

func TestBannerAutoDismiss(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.Submit()
	ctrl.Tick(2999 * time.Millisecond)
	if !ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected error banner visible at 2999ms")
	}

	ctrl.Tick(time.Millisecond)
	if ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected error banner hidden at 3000ms")
	}
	if !ctrl.Banner(model.BannerError).ExpiresAt.IsZero() {
		t.Fatal("expected expiry cleared once hidden")
	}
}

func TestResubmitResetsWindow(t *testing.T) {
	ctrl, _ := newTestController(t)
	fillValid(ctrl)

	ctrl.Submit()
	ctrl.Tick(2000 * time.Millisecond)
	ctrl.Submit()

	ctrl.Tick(1001 * time.Millisecond) // old expiry + 1ms
	if !ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("expected success banner visible after the superseded expiry")
	}

	ctrl.Tick(2000 * time.Millisecond) // new expiry + 1ms
	if ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("expected success banner hidden after the new expiry")
	}
}

func TestOpposingOutcomeHidesBanner(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.Submit()
	fillValid(ctrl)
	ctrl.Submit()

	if ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected error banner hidden by accepted submission")
	}
	if !ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("expected success banner visible")
	}
}

func TestShowAndHideBannerWithoutTimer(t *testing.T) {
	ctrl, _ := newTestController(t)

	if err := ctrl.ShowBanner(model.BannerSuccess); err != nil {
		t.Fatalf("ShowBanner: %v", err)
	}
	state := ctrl.Banner(model.BannerSuccess)
	if !state.Visible || !state.ExpiresAt.IsZero() {
		t.Fatalf("expected visible banner without expiry, got %+v", state)
	}

	ctrl.Tick(10 * time.Second)
	if !ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("directly shown banner must not auto-dismiss")
	}

	if err := ctrl.HideBanner(model.BannerSuccess); err != nil {
		t.Fatalf("HideBanner: %v", err)
	}
	if ctrl.Banner(model.BannerSuccess).Visible {
		t.Fatal("expected banner hidden")
	}

	if err := ctrl.ShowBanner(model.BannerKind("warning")); !errors.Is(err, ErrNoSuchOption) {
		t.Fatalf("expected ErrNoSuchOption, got %v", err)
	}
}

func TestPendingExpirySurvivesDirectToggle(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.Submit()
	if err := ctrl.HideBanner(model.BannerError); err != nil {
		t.Fatalf("HideBanner: %v", err)
	}
	if err := ctrl.ShowBanner(model.BannerError); err != nil {
		t.Fatalf("ShowBanner: %v", err)
	}
	if ctrl.Banner(model.BannerError).ExpiresAt.IsZero() {
		t.Fatal("direct toggles must keep the pending expiry")
	}

	ctrl.Tick(DefaultBannerDelay)
	if ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected pending expiry to hide the banner")
	}
}

func TestCloseStopsTimers(t *testing.T) {
	ctrl, fc := newTestController(t)

	ctrl.Submit()
	if err := ctrl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if fc.HasWaiters() {
		t.Fatal("expected no pending timers after Close")
	}

	fc.Step(10 * time.Second)
	if !ctrl.Banner(model.BannerError).Visible {
		t.Fatal("no timer may fire after Close")
	}

	ctrl.Submit()
	if fc.HasWaiters() {
		t.Fatal("closed controller must not arm timers")
	}
}

func TestWithBannerDelay(t *testing.T) {
	ctrl, _ := newTestController(t, WithBannerDelay(500*time.Millisecond))

	ctrl.Submit()
	ctrl.Tick(499 * time.Millisecond)
	if !ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected banner visible before custom delay")
	}
	ctrl.Tick(time.Millisecond)
	if ctrl.Banner(model.BannerError).Visible {
		t.Fatal("expected banner hidden at custom delay")
	}
}

func TestSubscribeReceivesBannerChanges(t *testing.T) {
	ctrl, _ := newTestController(t)

	var (
		mu   sync.Mutex
		seen []bool
	)
	ctrl.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Banner(model.BannerError).Visible)
	})

	ctrl.Submit()
	if err := ctrl.HideBanner(model.BannerError); err != nil {
		t.Fatalf("HideBanner: %v", err)
	}
	if err := ctrl.HideBanner(model.BannerError); err != nil {
		t.Fatalf("HideBanner: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]bool{true, false}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribeFromListener(t *testing.T) {
	ctrl, _ := newTestController(t)

	var (
		mu    sync.Mutex
		outer int
		inner int
		once  sync.Once
	)
	ctrl.Subscribe(func(Snapshot) {
		mu.Lock()
		outer++
		mu.Unlock()
		once.Do(func() {
			ctrl.Subscribe(func(Snapshot) {
				mu.Lock()
				inner++
				mu.Unlock()
			})
		})
	})

	ctrl.Submit()
	if err := ctrl.HideBanner(model.BannerError); err != nil {
		t.Fatalf("HideBanner: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if outer != 2 || inner != 1 {
		t.Fatalf("expected 2 outer and 1 inner notifications, got %d and %d", outer, inner)
	}
}

func TestSelectResolvesValueLabelAndIndex(t *testing.T) {
	ctrl, _ := newTestController(t)

	for _, selector := range []any{"mentoria", "Mentoria", 3} {
		result, err := ctrl.Select("product", selector)
		if err != nil {
			t.Fatalf("Select(%v): %v", selector, err)
		}
		want := SelectionResult{
			Group:    "product",
			Index:    3,
			Option:   model.Option{Value: "mentoria", Label: "Mentoria"},
			Selected: []string{"mentoria"},
		}
		if diff := cmp.Diff(want, result); diff != "" {
			t.Fatalf("Select(%v) mismatch (-want +got):\n%s", selector, diff)
		}
	}

	result, err := ctrl.Select("product", 1)
	if err != nil {
		t.Fatalf("Select(1): %v", err)
	}
	if result.Option.Value != "blog" {
		t.Fatalf("expected index 1 to resolve to blog, got %q", result.Option.Value)
	}
	if diff := cmp.Diff([]string{"blog"}, result.Selected); diff != "" {
		t.Fatalf("select must replace the selection (-want +got):\n%s", diff)
	}
}

func TestSelectUnknownOption(t *testing.T) {
	ctrl, _ := newTestController(t)

	cases := []struct {
		group    string
		selector any
	}{
		{group: "product", selector: "podcast"},
		{group: "product", selector: 99},
		{group: "product", selector: 0},
		{group: "product", selector: "Selecione"},
		{group: "product", selector: 1.5},
		{group: "color", selector: "red"},
	}
	for _, tc := range cases {
		if _, err := ctrl.Select(tc.group, tc.selector); !errors.Is(err, ErrNoSuchOption) {
			t.Fatalf("Select(%q, %v): expected ErrNoSuchOption, got %v", tc.group, tc.selector, err)
		}
	}
}

func TestCheckRadioAndCheckboxes(t *testing.T) {
	ctrl, _ := newTestController(t)

	if err := ctrl.Check("attendanceType"); err != nil {
		t.Fatalf("Check radio: %v", err)
	}
	got, _ := ctrl.Selected("attendanceType")
	if diff := cmp.Diff([]string{"feedback"}, got); diff != "" {
		t.Fatalf("radio selection mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.Check("attendanceType", "Elogio"); err != nil {
		t.Fatalf("Check radio by label: %v", err)
	}
	got, _ = ctrl.Selected("attendanceType")
	if diff := cmp.Diff([]string{"elogio"}, got); diff != "" {
		t.Fatalf("radio selection mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.Check("contactPreference"); err != nil {
		t.Fatalf("Check all: %v", err)
	}
	got, _ = ctrl.Selected("contactPreference")
	if diff := cmp.Diff([]string{"email", "phone"}, got); diff != "" {
		t.Fatalf("checkbox selection mismatch (-want +got):\n%s", diff)
	}
	if !ctrl.IsRequired("phone") {
		t.Fatal("checking every box includes the phone toggle")
	}

	if err := ctrl.Uncheck("contactPreference", "email"); err != nil {
		t.Fatalf("Uncheck: %v", err)
	}
	if err := ctrl.Uncheck("contactPreference", "email"); err != nil {
		t.Fatalf("Uncheck twice: %v", err)
	}
	got, _ = ctrl.Selected("contactPreference")
	if diff := cmp.Diff([]string{"phone"}, got); diff != "" {
		t.Fatalf("checkbox selection mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.Check("contactPreference", "email", "fax"); !errors.Is(err, ErrNoSuchOption) {
		t.Fatalf("expected ErrNoSuchOption, got %v", err)
	}
	got, _ = ctrl.Selected("contactPreference")
	if diff := cmp.Diff([]string{"phone"}, got); diff != "" {
		t.Fatalf("failed check must not change selection (-want +got):\n%s", diff)
	}
}

func TestParseSelector(t *testing.T) {
	if diff := cmp.Diff([]any{3, "mentoria", "#x"}, []any{ParseSelector("#3"), ParseSelector("mentoria"), ParseSelector("#x")}); diff != "" {
		t.Fatalf("ParseSelector mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachFileSourcesYieldSameFile(t *testing.T) {
	loader := fixtures.NewDir("testdata")
	if _, err := loader.Alias("sampleFile", "example.json"); err != nil {
		t.Fatalf("Alias: %v", err)
	}
	ctrl, _ := newTestController(t, WithResolver(loader))

	selected, err := ctrl.AttachFile(FromPath("example.json"))
	if err != nil {
		t.Fatalf("AttachFile select: %v", err)
	}
	selectedFile, _ := ctrl.Attachment()

	dropped, err := ctrl.AttachFile(FromPath("example.json"), WithAction(ActionDragDrop))
	if err != nil {
		t.Fatalf("AttachFile drag-drop: %v", err)
	}
	droppedFile, _ := ctrl.Attachment()

	aliased, err := ctrl.AttachFile(ParseSource("@sampleFile"))
	if err != nil {
		t.Fatalf("AttachFile alias: %v", err)
	}
	aliasedFile, _ := ctrl.Attachment()

	for _, got := range []AttachmentResult{selected, dropped, aliased} {
		if got.Filename != "example.json" {
			t.Fatalf("expected example.json, got %q", got.Filename)
		}
	}
	if dropped.Action != ActionDragDrop || selected.Action != ActionSelect {
		t.Fatalf("unexpected actions: %q %q", selected.Action, dropped.Action)
	}
	if diff := cmp.Diff(selectedFile.Content, droppedFile.Content); diff != "" {
		t.Fatalf("content mismatch (-select +drag-drop):\n%s", diff)
	}
	if diff := cmp.Diff(selectedFile.Content, aliasedFile.Content); diff != "" {
		t.Fatalf("content mismatch (-select +alias):\n%s", diff)
	}
}

func TestAttachFileFromBytesReplacesAttachment(t *testing.T) {
	ctrl, _ := newTestController(t)

	if _, err := ctrl.AttachFile(FromBytes("a.txt", []byte("a"))); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	if _, err := ctrl.AttachFile(FromBytes("b.txt", []byte("bb"))); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}

	got, ok := ctrl.Attachment()
	if !ok {
		t.Fatal("expected attachment")
	}
	if diff := cmp.Diff(Attachment{Filename: "b.txt", Content: []byte("bb"), Action: ActionSelect}, got); diff != "" {
		t.Fatalf("attachment mismatch (-want +got):\n%s", diff)
	}
}

func TestAttachFileNotFound(t *testing.T) {
	loader := fixtures.New(fstest.MapFS{})
	ctrl, _ := newTestController(t, WithResolver(loader))
	if _, err := ctrl.AttachFile(FromBytes("keep.txt", []byte("k"))); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}

	for _, src := range []Source{FromPath("missing.txt"), FromAlias("nothing"), FromBytes("", nil), nil} {
		if _, err := ctrl.AttachFile(src); !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound for %v, got %v", src, err)
		}
	}
	got, _ := ctrl.Attachment()
	if got.Filename != "keep.txt" {
		t.Fatalf("failed attach must keep the previous file, got %q", got.Filename)
	}
}

func TestSnapshot(t *testing.T) {
	ctrl, fc := newTestController(t)
	ctrl.SetField("firstName", "Walmyr")
	if _, err := ctrl.Select("product", "youtube"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	ctrl.Submit()

	got := ctrl.Snapshot()
	want := Snapshot{
		FormID: "cac-tat",
		Fields: []FieldState{
			{Name: "firstName", Kind: model.FieldKindText, Value: "Walmyr", Required: true},
			{Name: "lastName", Kind: model.FieldKindText, Required: true},
			{Name: "email", Kind: model.FieldKindEmail, Required: true},
			{Name: "phone", Kind: model.FieldKindTel},
			{Name: "productDescription", Kind: model.FieldKindTextArea, Required: true},
		},
		Required: []string{"firstName", "lastName", "email", "productDescription"},
		Groups: []GroupState{
			{Name: "product", Kind: model.GroupKindSelect, Selected: []string{"youtube"}},
			{Name: "attendanceType", Kind: model.GroupKindRadio, Selected: []string{}},
			{Name: "contactPreference", Kind: model.GroupKindCheckbox, Selected: []string{}},
		},
		Banners: []BannerState{
			{Kind: model.BannerSuccess},
			{Kind: model.BannerError, Visible: true, ExpiresAt: fc.Now().Add(DefaultBannerDelay)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if got.Value("firstName") != "Walmyr" || !got.Banner(model.BannerError).Visible {
		t.Fatal("snapshot accessors disagree with the state")
	}
}
