package goom

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/base/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactHandler is called once per step with the resolved contacts.
// The contacts are only valid during the call.
type ContactHandler func(world *World, contacts []*Contact)

// BodyDescriptor describes a body for World.AddBody and scene files.
type BodyDescriptor struct {
	ID     string `yaml:"id"`
	Static bool   `yaml:"static"`

	Position mgl64.Vec3 `yaml:"position"`
	// Orientation is a quaternion as (r, i, j, k). The zero value is the identity.
	Orientation     [4]float64 `yaml:"orientation"`
	Velocity        mgl64.Vec3 `yaml:"velocity"`
	AngularVelocity mgl64.Vec3 `yaml:"angular_velocity"`

	// Weight is the mass. Zero keeps the default mass of 1.
	Weight float64 `yaml:"weight"`
	// InertiaTensor is the diagonal of the inertia tensor. Zero means the body does not rotate.
	InertiaTensor mgl64.Vec3 `yaml:"inertia_tensor"`

	Primitives []PrimitiveDescriptor `yaml:"primitives"`

	// Copies and Spacing are expanded by Scene.Populate: the body is added
	// Copies+1 times, each copy shifted by Spacing from the previous one.
	Copies  int        `yaml:"copies,omitempty"`
	Spacing mgl64.Vec3 `yaml:"spacing,omitempty"`
}

// World owns the bodies and planes of a simulation and steps them.
type World struct {
	UserData any

	Bodies []*RigidBody
	Planes []*Plane

	config   Config
	logger   *slog.Logger
	index    SpatialIndexer
	detector *CollisionDetector
	resolver *ContactResolver
	registry ForceRegistry
	handler  ContactHandler

	pairs    []PotentialContact
	contacts []*Contact

	stamp            uint
	locked           bool
	lastContactCount int
	lastOverflow     int
}

// WorldOption configures a World in NewWorld.
type WorldOption func(w *World)

// WithConfig replaces the default settings.
func WithConfig(cfg Config) WorldOption {
	return func(w *World) {
		w.config = cfg
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld allocates and initializes a World
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		config: DefaultConfig(),
		logger: slog.Default(),
		index:  NewBVH(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.detector = NewCollisionDetector(w.config.MaxContacts)
	w.resolver = NewContactResolver(w.config.VelocityEpsilon, w.config.PositionEpsilon)
	return w
}

// Config returns the settings of the world.
func (w *World) Config() Config {
	return w.config
}

// BVH returns the broad-phase hierarchy.
func (w *World) BVH() *BVH {
	return GetTree(w.index)
}

// Detector returns the narrow-phase detector.
func (w *World) Detector() *CollisionDetector {
	return w.detector
}

// Resolver returns the contact resolver.
func (w *World) Resolver() *ContactResolver {
	return w.resolver
}

// IsLocked returns true from inside the contact handler, when bodies and planes cannot be added or removed.
func (w *World) IsLocked() bool {
	return w.locked
}

// Stamp returns the number of steps taken.
func (w *World) Stamp() uint {
	return w.stamp
}

// SetGravity changes the gravity and applies it to every dynamic body.
func (w *World) SetGravity(gravity mgl64.Vec3) {
	w.config.Gravity = gravity
	for _, body := range w.Bodies {
		if !body.IsStatic() {
			body.SetAcceleration(gravity)
			body.WakeUp()
		}
	}
}

// SetContactHandler sets the function called after resolution in every step.
func (w *World) SetContactHandler(handler ContactHandler) {
	w.handler = handler
}

// DebugInfo returns a summary of the world state.
func (w *World) DebugInfo() string {
	return DebugInfo(w)
}

// AddBody creates a body from desc and adds it to the world. Bodies with
// primitives are also added to the BVH.
func (w *World) AddBody(desc BodyDescriptor) (*RigidBody, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	if desc.Weight < 0 {
		return nil, fmt.Errorf("%w: body %q weight %v", ErrInvalidDescriptor, desc.ID, desc.Weight)
	}

	body := NewRigidBody(1)
	body.ID = desc.ID
	body.position = desc.Position
	body.orientation = quatFromArray(desc.Orientation)
	if desc.Weight > 0 {
		body.SetMass(desc.Weight)
	}
	if desc.InertiaTensor != (mgl64.Vec3{}) {
		body.SetInertiaTensorCoefficients(desc.InertiaTensor[0], desc.InertiaTensor[1], desc.InertiaTensor[2])
	}

	cfg := w.config.Body
	body.SetDamping(cfg.LinearDamping, cfg.AngularDamping)
	body.SetSleepEpsilon(cfg.SleepEpsilon)
	body.SetCanSleep(cfg.CanSleep)
	body.WakeUp()

	if desc.Static {
		body.SetType(Static)
	} else {
		body.velocity = desc.Velocity
		body.rotation = desc.AngularVelocity
		body.acceleration = w.config.Gravity
	}
	body.CalculateDerivedData()

	if err := body.AddPrimitives(desc.Primitives...); err != nil {
		return nil, fmt.Errorf("body %q: %w", desc.ID, err)
	}

	w.addBody(body)
	return body, nil
}

// AddRigidBody adds a body built by hand. Bodies without primitives are integrated but never collide.
func (w *World) AddRigidBody(body *RigidBody) error {
	if w.locked {
		return ErrWorldLocked
	}
	if body.World != nil {
		return fmt.Errorf("%w: body %q already belongs to a world", ErrInvalidDescriptor, body.ID)
	}
	if !body.IsStatic() && body.acceleration == (mgl64.Vec3{}) {
		body.acceleration = w.config.Gravity
	}
	w.addBody(body)
	return nil
}

func (w *World) addBody(body *RigidBody) {
	body.World = w
	w.Bodies = append(w.Bodies, body)
	w.refit(body)
	w.logger.Debug("body added", "id", body.ID, "primitives", len(body.Primitives), "bodies", len(w.Bodies))
}

// refit replaces the leaf of body with one enclosing all of its primitives.
// Bodies without primitives stay out of the index.
func (w *World) refit(body *RigidBody) {
	if len(body.Primitives) == 0 {
		return
	}
	w.index.Remove(body)
	volume := NewBoundingSphere(body.position, 0)
	volume.FitToPrimitives(body.Primitives)
	w.index.Insert(body, volume)
}

// RemoveBody takes body out of the world, the BVH and the force registry.
func (w *World) RemoveBody(body *RigidBody) error {
	if w.locked {
		return ErrWorldLocked
	}
	if body == nil || body.World != w {
		return ErrBodyNotFound
	}

	w.index.Remove(body)
	w.registry.RemoveBody(body)
	w.Bodies = slices.DeleteFunc(w.Bodies, func(b *RigidBody) bool {
		return b == body
	})
	body.World = nil
	w.logger.Debug("body removed", "id", body.ID, "bodies", len(w.Bodies))
	return nil
}

// FindBody returns the last added body with id, nil if there is none.
func (w *World) FindBody(id string) *RigidBody {
	for i := len(w.Bodies) - 1; i >= 0; i-- {
		if w.Bodies[i].ID == id {
			return w.Bodies[i]
		}
	}
	return nil
}

// AddPlane adds a static half-space every body is tested against.
func (w *World) AddPlane(desc PlaneDescriptor) (*Primitive, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	prim, err := NewPlaneFromDescriptor(desc)
	if err != nil {
		return nil, err
	}
	w.Planes = append(w.Planes, prim.Plane())
	return prim, nil
}

// AddPlanes adds every plane of descs. Invalid descriptors are skipped and
// reported together.
func (w *World) AddPlanes(descs ...PlaneDescriptor) error {
	var errs []error
	for _, desc := range descs {
		if _, err := w.AddPlane(desc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterForce makes generator act on body every step.
func (w *World) RegisterForce(body *RigidBody, generator ForceGenerator) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.registry.Add(body, generator)
	return nil
}

// UnregisterForce removes the first registration of the pair.
func (w *World) UnregisterForce(body *RigidBody, generator ForceGenerator) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.registry.Remove(body, generator)
	return nil
}

// Forces returns the force registry.
func (w *World) Forces() *ForceRegistry {
	return &w.registry
}

// EachBody calls f for every body in insertion order.
//
// Example:
//
//	world.EachBody(func(body *goom.RigidBody) {
//		fmt.Println(body.Position())
//	})
func (w *World) EachBody(f func(body *RigidBody)) {
	for _, body := range w.Bodies {
		f(body)
	}
}

func (w *World) BodyCount() int {
	return len(w.Bodies)
}

// potentialContacts runs the broad phase into w.pairs.
func (w *World) potentialContacts() {
	w.pairs = w.pairs[:0]
	limit := w.config.PotentialContactLimit
	if w.config.SelfPairs {
		w.pairs, _ = w.index.AllPotentialContacts(w.pairs, limit)
	} else {
		w.pairs, _ = w.index.PotentialContacts(w.pairs, limit)
	}
	if len(w.pairs) >= limit {
		w.logger.Debug("potential contact limit reached", "limit", limit, "step", w.stamp)
	}
}

// Step advances the world by duration seconds: forces, integration, broad
// phase, narrow phase against bodies and planes, resolution, then the
// contact handler.
func (w *World) Step(duration float64) {
	if duration <= 0 {
		return
	}
	w.stamp++

	w.registry.UpdateForces(duration)
	for _, body := range w.Bodies {
		body.Integrate(duration)
	}

	w.potentialContacts()

	data := CollisionData{Restitution: w.config.Restitution, Friction: w.config.Friction}
	for _, pair := range w.pairs {
		if pair.A.IsStatic() && pair.B.IsStatic() {
			continue
		}
		w.contacts, _ = w.detector.CheckForContacts(pair.A, pair.B, data, w.contacts)
	}
	for _, plane := range w.Planes {
		for _, body := range w.Bodies {
			if body.IsStatic() {
				continue
			}
			w.contacts, _ = w.detector.CheckForContactsWithPlane(body, plane, data, w.contacts)
		}
	}

	w.resolver.Resolve(w.contacts, duration)
	if w.resolver.Exhausted(len(w.contacts)) {
		w.logger.Debug("resolver iteration cap reached",
			"contacts", len(w.contacts),
			"position_iterations", w.resolver.PositionIterationsUsed,
			"velocity_iterations", w.resolver.VelocityIterationsUsed,
			"step", w.stamp)
	}

	w.lastContactCount = len(w.contacts)
	w.lastOverflow = w.detector.Pool().Overflow()
	if w.lastOverflow > 0 {
		w.logger.Debug("contact pool overflow", "overflow", w.lastOverflow, "capacity", w.detector.Pool().Cap(), "step", w.stamp)
	}

	if w.handler != nil {
		w.locked = true
		w.handler(w, w.contacts)
		w.locked = false
	}

	w.detector.ClearCache()
	clear(w.contacts)
	w.contacts = w.contacts[:0]
}

// LastContactCount returns the number of contacts found by the last step.
func (w *World) LastContactCount() int {
	return w.lastContactCount
}
