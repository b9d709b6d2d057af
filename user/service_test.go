package user_test

import (
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/fixture"
	"github.com/rafacorp/recipes/user"
	"golang.org/x/crypto/bcrypt"
)

func (s *UserTestSuite) TestCreate() {
	// Act
	u, err := s.svc.Create("Test@RafaCorp.com", "testpass123", "Test name")

	// Assert
	s.Require().Nil(err)
	s.Require().True(u.Exists())
	s.Require().Equal("test@rafacorp.com", u.Email)
	s.Require().Equal("Test name", u.Name)
	s.Require().True(u.Active)
	s.Require().False(u.Staff)
	s.Require().NotEqual([]byte("testpass123"), u.Password)
	s.Require().Nil(bcrypt.CompareHashAndPassword(u.Password, []byte("testpass123")))

	// Act: same email, different case.
	_, err = s.svc.Create("TEST@rafacorp.com", "otherpass", "Other")

	// Assert
	s.Require().ErrorIs(err, recipes.ErrExists)
}

func (s *UserTestSuite) TestCreateRejectsBadInput() {
	// Act
	_, err := s.svc.Create("", "testpass123", "")

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)

	// Act
	_, err = s.svc.Create("test@rafacorp.com", "pw", "")

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)

	// No user row survives a rejected registration.
	count, err := s.db.Model(&recipes.User{}).Count()
	s.Require().Nil(err)
	s.Require().Zero(count)
}

func (s *UserTestSuite) TestCreateSuperuser() {
	// Act
	u, err := s.svc.CreateSuperuser("admin@rafacorp.com", "adminpass")

	// Assert
	s.Require().Nil(err)
	s.Require().True(u.Staff)
	s.Require().True(u.Superuser)
	s.Require().True(u.Active)
}

func (s *UserTestSuite) TestAuthenticate() {
	// Arrange
	_, err := fixture.SampleUser(s.db, fixture.UserPassword("testpass123"))
	s.Require().Nil(err)

	// Act
	u, err := s.svc.Authenticate("TEST@rafacorp.com", "testpass123")

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(fixture.DefaultEmail, u.Email)

	tcs := []struct {
		name     string
		email    string
		password string
	}{
		{"Unknown-Email", "nobody@rafacorp.com", "testpass123"},
		{"Wrong-Password", fixture.DefaultEmail, "wrongpass"},
		{"Missing-Email", "", "testpass123"},
		{"Missing-Password", fixture.DefaultEmail, ""},
	}

	for _, tc := range tcs {
		s.Run(tc.name, func() {
			// Act
			_, err := s.svc.Authenticate(tc.email, tc.password)

			// Assert: the failure reason is not differentiated.
			s.Require().ErrorIs(err, recipes.ErrNotValid)
		})
	}
}

func (s *UserTestSuite) TestByID() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	// Act
	found, err := s.svc.ByID(u.ID)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(u.Email, found.Email)

	// Act
	_, err = s.svc.ByID(10101)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *UserTestSuite) TestUpdate() {
	// Arrange
	u, err := s.svc.Create("test@rafacorp.com", "testpass123", "Before")
	s.Require().Nil(err)

	name := "After"
	password := "newpass456"

	// Act
	err = s.svc.Update(&u, user.ProfileUpdate{Name: &name, Password: &password})

	// Assert
	s.Require().Nil(err)
	s.Require().Equal("After", u.Name)

	_, err = s.svc.Authenticate(u.Email, "newpass456")
	s.Require().Nil(err)

	_, err = s.svc.Authenticate(u.Email, "testpass123")
	s.Require().ErrorIs(err, recipes.ErrNotValid)

	// Act: a short replacement password is rejected.
	bad := "pw"
	err = s.svc.Update(&u, user.ProfileUpdate{Password: &bad})

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)

	// Act: an empty update is a no-op.
	s.Require().Nil(s.svc.Update(&u, user.ProfileUpdate{}))
}

func (s *UserTestSuite) TestPaged() {
	// Arrange
	for _, email := range []string{"a@rafacorp.com", "b@rafacorp.com", "c@rafacorp.com"} {
		_, err := fixture.SampleUser(s.db, fixture.UserEmail(email))
		s.Require().Nil(err)
	}

	// Act
	pd, err := s.svc.Paged(1, 2)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(int64(3), pd.TotalItems)
	s.Require().Equal(int64(2), pd.TotalPages)

	items, ok := pd.Items.(*[]recipes.User)
	s.Require().True(ok)
	s.Require().Len(*items, 2)
}
