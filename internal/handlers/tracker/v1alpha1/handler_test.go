package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	v1alpha1 "github.com/KirkDiggler/rpg-tracker/internal/handlers/tracker/v1alpha1"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
	trackermock "github.com/KirkDiggler/rpg-tracker/internal/services/tracker/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *trackermock.MockService
	handler     *v1alpha1.Handler
	ctx         context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = trackermock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{Service: s.mockService})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(fields map[string]interface{}) *structpb.Struct {
	req, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) TestNewHandlerRequiresService() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestPerformActionFlattensInput() {
	s.mockService.EXPECT().
		PerformAction(s.ctx, &tracker.PerformActionInput{
			CharacterID: "char_1",
			Action:      "short_rest",
			Input: map[string]string{
				"hit_dice": "10,10",
				"rolls":    "4,7",
				"is_check": "true",
			},
		}).
		Return(&tracker.PerformActionOutput{Result: &tracker.ActionResult{
			Values: map[string]string{"hit_dice": "10,10", "rolls": "4,7"},
			Errors: map[string]string{},
		}}, nil)

	resp, err := s.handler.PerformAction(s.ctx, s.request(map[string]interface{}{
		"character_id": "char_1",
		"action":       "short_rest",
		"input": map[string]interface{}{
			"hit_dice":      []interface{}{10, 10},
			"rolls":         "4,7",
			"is_check":      true,
			"recover_slots": nil,
		},
	}))
	s.Require().NoError(err)

	result := resp.GetFields()["result"].GetStructValue().AsMap()
	s.Equal(false, result["complete"])
	s.Equal(map[string]interface{}{"hit_dice": "10,10", "rolls": "4,7"}, result["values"])
}

func (s *HandlerTestSuite) TestPerformActionStructuralErrors() {
	s.Run("missing identifiers", func() {
		_, err := s.handler.PerformAction(s.ctx, s.request(map[string]interface{}{}))
		s.Equal(codes.InvalidArgument, status.Code(err))

		fields := errors.StructuralFields(errors.FromGRPCError(err))
		s.Contains(fields, "character_id")
		s.Contains(fields, "action")
	})

	s.Run("nested objects are not form values", func() {
		_, err := s.handler.PerformAction(s.ctx, s.request(map[string]interface{}{
			"character_id": "char_1",
			"action":       "change_coins",
			"input":        map[string]interface{}{"gp": map[string]interface{}{"amount": 5}},
		}))
		s.Equal(codes.InvalidArgument, status.Code(err))
		s.Contains(errors.StructuralFields(errors.FromGRPCError(err)), "input.gp")
	})
}

func (s *HandlerTestSuite) TestPerformActionMapsServiceErrors() {
	s.mockService.EXPECT().
		PerformAction(s.ctx, gomock.Any()).
		Return(nil, errors.NotFound("character with ID char_9 not found"))

	_, err := s.handler.PerformAction(s.ctx, s.request(map[string]interface{}{
		"character_id": "char_9",
		"action":       "long_rest",
	}))
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *HandlerTestSuite) TestCreateCharacter() {
	s.mockService.EXPECT().
		CreateCharacter(s.ctx, &tracker.CreateCharacterInput{Input: map[string]string{
			"name":       "Mira",
			"species":    "human",
			"background": "sage",
			"alignment":  "neutral_good",
		}}).
		Return(&tracker.CreateCharacterOutput{
			Result:    &tracker.ActionResult{Complete: true, Summary: "Create Mira, a human sage"},
			Character: &dnd5e.Character{ID: "char_1", Name: "Mira", Species: "human", Background: "sage", Alignment: "neutral_good", Ruleset: "2024"},
		}, nil)

	resp, err := s.handler.CreateCharacter(s.ctx, s.request(map[string]interface{}{
		"input": map[string]interface{}{
			"name":       "Mira",
			"species":    "human",
			"background": "sage",
			"alignment":  "neutral_good",
		},
	}))
	s.Require().NoError(err)

	character := resp.GetFields()["character"].GetStructValue().AsMap()
	s.Equal("char_1", character["id"])
	s.Equal("2024", character["ruleset"])
	s.Equal("Create Mira, a human sage", resp.GetFields()["result"].GetStructValue().GetFields()["summary"].GetStringValue())
}

func (s *HandlerTestSuite) TestGetSnapshot() {
	s.Run("requires a character id", func() {
		_, err := s.handler.GetSnapshot(s.ctx, s.request(map[string]interface{}{}))
		s.Equal(codes.InvalidArgument, status.Code(err))
	})

	s.Run("encodes with json names", func() {
		s.mockService.EXPECT().
			GetSnapshot(s.ctx, &tracker.GetSnapshotInput{CharacterID: "char_1"}).
			Return(&tracker.GetSnapshotOutput{Snapshot: &dnd5e.Snapshot{
				Character:        &dnd5e.Character{ID: "char_1"},
				TotalLevel:       5,
				ProficiencyBonus: 3,
				HitPoints:        dnd5e.HitPoints{Max: 30, Current: 12},
				SpellSlots: dnd5e.Pool{
					Capacity:  map[int]int{1: 4, 2: 3, 3: 2},
					Available: map[int]int{1: 4, 2: 1, 3: 2},
				},
			}}, nil)

		resp, err := s.handler.GetSnapshot(s.ctx, s.request(map[string]interface{}{"character_id": "char_1"}))
		s.Require().NoError(err)

		snap := resp.GetFields()["snapshot"].GetStructValue().AsMap()
		s.Equal(float64(3), snap["proficiency_bonus"])
		s.Equal(map[string]interface{}{"max": float64(30), "current": float64(12)}, snap["hit_points"])
		slots := snap["spell_slots"].(map[string]interface{})
		s.Equal(float64(1), slots["available"].(map[string]interface{})["2"])
	})
}

func (s *HandlerTestSuite) TestListActions() {
	s.mockService.EXPECT().
		ListActions(s.ctx, &tracker.ListActionsInput{}).
		Return(&tracker.ListActionsOutput{Actions: []tracker.ActionInfo{{
			Name:   "long_rest",
			Fields: []tracker.FieldInfo{},
		}}}, nil)

	resp, err := s.handler.ListActions(s.ctx, &structpb.Struct{})
	s.Require().NoError(err)
	s.Len(resp.GetFields()["actions"].GetListValue().GetValues(), 1)
}

// TestOverTheWire drives the service descriptor and client through a real
// grpc server with the production interceptor chain.
func (s *HandlerTestSuite) TestOverTheWire() {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(v1alpha1.ServerOptions(nil)...)
	v1alpha1.RegisterCharacterServiceServer(srv, s.handler)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	defer func() { _ = conn.Close() }()
	client := v1alpha1.NewClient(conn)

	s.Run("perform action", func() {
		s.mockService.EXPECT().
			PerformAction(gomock.Any(), &tracker.PerformActionInput{
				CharacterID: "char_1",
				Action:      "change_hit_points",
				Input:       map[string]string{"delta": "-4"},
			}).
			Return(&tracker.PerformActionOutput{Result: &tracker.ActionResult{
				Complete: true,
				Summary:  "Take 4 damage (16/20)",
			}}, nil)

		resp, err := client.PerformAction(s.ctx, "char_1", "change_hit_points", map[string]string{"delta": "-4"})
		s.Require().NoError(err)
		s.Equal("Take 4 damage (16/20)", resp.GetFields()["result"].GetStructValue().GetFields()["summary"].GetStringValue())
	})

	s.Run("structural details survive the round trip", func() {
		_, err := client.GetSnapshot(s.ctx, "")
		s.Equal(codes.InvalidArgument, status.Code(err))
		s.Contains(errors.StructuralFields(errors.FromGRPCError(err)), "character_id")
	})

	s.Run("panics become internal errors", func() {
		s.mockService.EXPECT().
			ListCharacters(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *tracker.ListCharactersInput) (*tracker.ListCharactersOutput, error) {
				panic("boom")
			})

		_, err := client.ListCharacters(s.ctx)
		s.Equal(codes.Internal, status.Code(err))
	})
}
