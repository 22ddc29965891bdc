// Package schema defines the GraphQL schema over the model
// and simulation services.
package schema

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	modelsvc "github.com/neurosim-cloud/neurosim/api/rest/service/model"
	simsvc "github.com/neurosim-cloud/neurosim/api/rest/service/simulation"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
)

// Services carries the resolvers' backing services. Both
// network surfaces resolve through the same service layer.
type Services struct {
	Models      *modelsvc.Service
	Simulations *simsvc.Service
}

// New instantiates a fresh GraphQL schema.
func New(svc *Services) graphql.SchemaConfig {
	return graphql.SchemaConfig{
		Query: graphql.NewObject(
			graphql.ObjectConfig{
				Name:   "Query",
				Fields: queries(svc),
			},
		),
		Mutation: graphql.NewObject(
			graphql.ObjectConfig{
				Name:   "Mutation",
				Fields: mutations(svc),
			},
		),
	}
}

var modelType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Model",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"uploaded_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var simulationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Simulation",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"model_id":    &graphql.Field{Type: graphql.String},
		"status":      &graphql.Field{Type: graphql.String},
		"error":       &graphql.Field{Type: graphql.String},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
		"started_at":  &graphql.Field{Type: graphql.DateTime},
		"finished_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var resultSetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ResultSet",
	Fields: graphql.Fields{
		"job_id": &graphql.Field{Type: graphql.String},
		"time":   &graphql.Field{Type: graphql.NewList(graphql.Float)},
		"series": &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Float))},
	},
})

var stimulusInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "StimulusInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"type":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"delay":     &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"duration":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"amplitude": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"rs":        &graphql.InputObjectFieldConfig{Type: graphql.Float},
	},
})

var recordingInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RecordingInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"section":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"variable": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var conditionsInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ConditionsInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"duration": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"dt":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"v_init":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"celsius":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
	},
})

func queries(svc *Services) graphql.Fields {
	return graphql.Fields{
		"models": &graphql.Field{
			Type: graphql.NewList(modelType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return svc.Models.List(p.Context)
			},
		},
		"model": &graphql.Field{
			Type: modelType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return svc.Models.Get(p.Context, p.Args["id"].(string))
			},
		},
		"simulations": &graphql.Field{
			Type: graphql.NewList(simulationType),
			Args: graphql.FieldConfigArgument{
				"status":   &graphql.ArgumentConfig{Type: graphql.String},
				"model_id": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				req := &simsvc.ListRequest{}
				if status, ok := p.Args["status"].(string); ok {
					req.Status = models.JobStatus(status)
				}
				if modelID, ok := p.Args["model_id"].(string); ok {
					req.ModelID = modelID
				}
				return svc.Simulations.List(p.Context, req)
			},
		},
		"simulation": &graphql.Field{
			Type: simulationType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := uuid.Parse(p.Args["id"].(string))
				if err != nil {
					return nil, err
				}
				return svc.Simulations.Get(p.Context, id)
			},
		},
		"results": &graphql.Field{
			Type: resultSetType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := uuid.Parse(p.Args["id"].(string))
				if err != nil {
					return nil, err
				}
				return svc.Simulations.Results(p.Context, id)
			},
		},
	}
}

func mutations(svc *Services) graphql.Fields {
	return graphql.Fields{
		"submitSimulation": &graphql.Field{
			Type: simulationType,
			Args: graphql.FieldConfigArgument{
				"model_id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"stimulus":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(stimulusInput)},
				"recordings": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(recordingInput))},
				"conditions": &graphql.ArgumentConfig{Type: graphql.NewNonNull(conditionsInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				req, err := submitRequest(p.Args)
				if err != nil {
					return nil, err
				}
				return svc.Simulations.Submit(p.Context, req)
			},
		},
		"cancelSimulation": &graphql.Field{
			Type: simulationType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := uuid.Parse(p.Args["id"].(string))
				if err != nil {
					return nil, err
				}
				if err := svc.Simulations.Cancel(p.Context, id); err != nil {
					return nil, err
				}
				return svc.Simulations.Get(p.Context, id)
			},
		},
	}
}

func submitRequest(args map[string]interface{}) (*protocol.Request, error) {
	req := &protocol.Request{ModelID: args["model_id"].(string)}

	stim := args["stimulus"].(map[string]interface{})
	req.Stimulus.Kind = protocol.StimulusKind(stim["type"].(string))
	req.Stimulus.Delay = floatArg(stim, "delay")
	req.Stimulus.Duration = floatArg(stim, "duration")
	req.Stimulus.Amplitude = floatArg(stim, "amplitude")
	req.Stimulus.SeriesResistance = floatArg(stim, "rs")

	for _, r := range args["recordings"].([]interface{}) {
		rec := r.(map[string]interface{})
		req.Recordings = append(req.Recordings, protocol.Recording{
			Section:  rec["section"].(string),
			Variable: rec["variable"].(string),
		})
	}

	cond := args["conditions"].(map[string]interface{})
	req.Conditions.Duration = floatArg(cond, "duration")
	req.Conditions.Dt = floatArg(cond, "dt")
	req.Conditions.VInit = floatArg(cond, "v_init")
	req.Conditions.Celsius = floatArg(cond, "celsius")

	return req, nil
}

func floatArg(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
